package models

import "time"

// Light switch states.
const (
	LightOn  = "ON"
	LightOff = "OFF"
)

// DefaultLightColor is the color reported before any user change.
const DefaultLightColor = "rgb(245, 255, 197)"

// FeedEvent records one successful feeding with the device's textual
// acknowledgement.
type FeedEvent struct {
	ID        int64     `json:"id"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// LightEvent records a light state change.
type LightEvent struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"` // ON | OFF
	Color     string    `json:"color"`  // rgb(...) string
	Timestamp time.Time `json:"timestamp"`
}

// StatusSnapshot is the latest feed/light state pushed to the device on the
// status topic.
type StatusSnapshot struct {
	Feed  float64 `json:"feed"`  // unix seconds of last feeding
	Light string  `json:"light"` // ON | OFF
	Color string  `json:"color"`
}

// DeviceToken is a registered push-notification target.
type DeviceToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}
