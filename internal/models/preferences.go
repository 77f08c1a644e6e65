package models

// UserPreferences holds the per-metric safe (Green) and acceptable (Orange)
// bands the classifier evaluates readings against. A single row (id=1) is
// authoritative; the most recently written values win.
type UserPreferences struct {
	MinGrnTemp float64 `json:"minGrnTemp"`
	MaxGrnTemp float64 `json:"maxGrnTemp"`
	MinOrgTemp float64 `json:"minOrgTemp"`
	MaxOrgTemp float64 `json:"maxOrgTemp"`

	MinGrnPh float64 `json:"minGrnPh"`
	MaxGrnPh float64 `json:"maxGrnPh"`
	MinOrgPh float64 `json:"minOrgPh"`
	MaxOrgPh float64 `json:"maxOrgPh"`

	MinGrnTds float64 `json:"minGrnTds"`
	MaxGrnTds float64 `json:"maxGrnTds"`
	MinOrgTds float64 `json:"minOrgTds"`
	MaxOrgTds float64 `json:"maxOrgTds"`

	GrnWaterLv float64 `json:"grnWaterLv"` // Green floor, percent
	OrgWaterLv float64 `json:"orgWaterLv"` // Orange floor, percent
	TankHeight float64 `json:"tankHeight"` // cm, forwarded to the device
}

// DefaultPreferences returns the factory bands used until the user saves
// their own.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		MinGrnTemp: 22.0, MaxGrnTemp: 28.0,
		MinOrgTemp: 19.0, MaxOrgTemp: 39.0,

		MinGrnPh: 7.0, MaxGrnPh: 8.0,
		MinOrgPh: 5.5, MaxOrgPh: 9.0,

		MinGrnTds: 250.0, MaxGrnTds: 400.0,
		MinOrgTds: 200.0, MaxOrgTds: 600.0,

		GrnWaterLv: 90,
		OrgWaterLv: 70,
		TankHeight: 24,
	}
}
