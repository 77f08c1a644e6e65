package models

import "time"

// Severity tiers for a sensor reading evaluated against user preferences.
const (
	SeverityGreen  = "Green"
	SeverityOrange = "Orange"
	SeverityRed    = "Red"
)

// Metric names used in per-metric deviation notices.
const (
	MetricTemperature = "Temperature"
	MetricPH          = "pH"
	MetricTDS         = "TDS"
	MetricWaterLevel  = "Water Level"
)

// SensorReading is one timestamped measurement from the tank plus its
// derived severity classification.
type SensorReading struct {
	ID         int64     `json:"id"`
	Temp       float64   `json:"temp"`    // °C
	PH         float64   `json:"ph"`
	TDS        float64   `json:"tds"`     // ppm
	WaterLevel float64   `json:"waterLv"` // percent of tank height
	Eval       string    `json:"eval"`    // Green | Orange | Red
	Timestamp  time.Time `json:"timestamp"`
}

// Deviation is a single out-of-band metric with its severity tier.
// Serialized as {metric: severity} on the quality topic.
type Deviation struct {
	Metric   string
	Severity string
}
