package service

import (
	"errors"

	"aquarium_control/internal/models"
)

// ErrPreferencesMissing is surfaced when sensor classification is requested
// before the user ever saved preference bands. It is a user-visible
// configuration error, never silently defaulted.
var ErrPreferencesMissing = errors.New("user preferences not found")

// Classify grades a reading against the preference bands: Red when any
// metric falls outside its Orange (acceptable) band or the water level
// exceeds 100, Orange when any metric falls outside its Green (safe) band,
// Green otherwise.
func Classify(r models.SensorReading, p models.UserPreferences) string {
	switch {
	case r.Temp < p.MinOrgTemp || r.Temp > p.MaxOrgTemp ||
		r.PH < p.MinOrgPh || r.PH > p.MaxOrgPh ||
		r.TDS < p.MinOrgTds || r.TDS > p.MaxOrgTds ||
		r.WaterLevel < p.OrgWaterLv || r.WaterLevel > 100:
		return models.SeverityRed
	case r.Temp < p.MinGrnTemp || r.Temp > p.MaxGrnTemp ||
		r.PH < p.MinGrnPh || r.PH > p.MaxGrnPh ||
		r.TDS < p.MinGrnTds || r.TDS > p.MaxGrnTds ||
		r.WaterLevel < p.GrnWaterLv:
		return models.SeverityOrange
	default:
		return models.SeverityGreen
	}
}

// Deviations lists each out-of-band metric with its severity tier, Red
// taking precedence over Orange per metric. An empty list means every
// metric is within its Green band.
func Deviations(r models.SensorReading, p models.UserPreferences) []models.Deviation {
	out := make([]models.Deviation, 0, 4)

	add := func(metric string, red, orange bool) {
		switch {
		case red:
			out = append(out, models.Deviation{Metric: metric, Severity: models.SeverityRed})
		case orange:
			out = append(out, models.Deviation{Metric: metric, Severity: models.SeverityOrange})
		}
	}

	add(models.MetricTemperature,
		r.Temp < p.MinOrgTemp || r.Temp > p.MaxOrgTemp,
		r.Temp < p.MinGrnTemp || r.Temp > p.MaxGrnTemp)
	add(models.MetricPH,
		r.PH < p.MinOrgPh || r.PH > p.MaxOrgPh,
		r.PH < p.MinGrnPh || r.PH > p.MaxGrnPh)
	add(models.MetricTDS,
		r.TDS < p.MinOrgTds || r.TDS > p.MaxOrgTds,
		r.TDS < p.MinGrnTds || r.TDS > p.MaxGrnTds)
	add(models.MetricWaterLevel,
		r.WaterLevel < p.OrgWaterLv || r.WaterLevel > 100,
		r.WaterLevel < p.GrnWaterLv)

	return out
}

// qualityAlertBody maps a severity tier to the user alert body. ok=false
// for Green, which emits no alert.
func qualityAlertBody(eval string) (string, bool) {
	switch eval {
	case models.SeverityOrange:
		return "Water quality needs attention!", true
	case models.SeverityRed:
		return "Critical water quality evaluate detected!", true
	default:
		return "", false
	}
}
