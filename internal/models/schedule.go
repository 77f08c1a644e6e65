package models

import "time"

// Schedule descriptions (what the trigger does).
const (
	DescFeedOn   = "Automatic Feed ON"
	DescLightOn  = "Automatic Light ON"
	DescLightOff = "Automatic Light OFF"
)

// Schedule frequencies.
const (
	FreqToday    = "Today"    // one-shot
	FreqEveryday = "Everyday" // recurring, date advanced at trigger time
)

// Schedule statuses.
const (
	StatusPending = "Pending"
	StatusSuccess = "Success"
)

// Layouts for schedule time fields. Trigger matching compares HH:MM strings,
// so both the store and the scans format through these.
const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

// ScheduleEntry is a persisted rule describing when to trigger a device
// action, once or every day. A recurring entry's WorkingDate always points
// to the date for which it is still pending.
type ScheduleEntry struct {
	ID          int64     `json:"id"`
	WorkingTime string    `json:"workingTime"` // HH:MM, minute resolution
	WorkingDate string    `json:"workingDate"` // YYYY-MM-DD
	Description string    `json:"desc"`        // see Desc* constants
	Frequency   string    `json:"freq"`        // Today | Everyday
	Status      string    `json:"status"`      // Pending | Success
	CreatedAt   time.Time `json:"created_at"`
}

// IsFeed reports whether the entry triggers the feeder.
func (e ScheduleEntry) IsFeed() bool {
	return e.Description == DescFeedOn
}

// LightSwitch maps a light description to the ON/OFF keyword sent to the
// device. Only meaningful when !IsFeed().
func (e ScheduleEntry) LightSwitch() string {
	if e.Description == DescLightOn {
		return LightOn
	}
	return LightOff
}
