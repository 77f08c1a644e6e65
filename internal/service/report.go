package service

import (
	"context"

	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
)

// Report is the full history export returned by the report endpoint.
// Timestamps are split into date and time strings so the client can render
// rows without its own formatting.
type Report struct {
	Readings []ReadingRow `json:"sensor_data"`
	Feedings []FeedRow    `json:"feeding_data"`
	Lights   []LightRow   `json:"light_data"`
}

type ReadingRow struct {
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Temp       float64 `json:"temp"`
	PH         float64 `json:"ph"`
	TDS        float64 `json:"tds"`
	WaterLevel float64 `json:"water_level"`
	Eval       string  `json:"eval"`
}

type FeedRow struct {
	Date string `json:"date"`
	Time string `json:"time"`
	Data string `json:"data"`
}

type LightRow struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
	Color  string `json:"color"`
}

type ReportService struct {
	sensors  repository.SensorRepo
	feedings repository.FeedRepo
	lights   repository.LightRepo
}

func NewReportService(sensors repository.SensorRepo, feedings repository.FeedRepo, lights repository.LightRepo) *ReportService {
	return &ReportService{
		sensors:  sensors,
		feedings: feedings,
		lights:   lights,
	}
}

// Build assembles the three histories in chronological order. Empty tables
// produce empty slices, not an error.
func (s *ReportService) Build(ctx context.Context) (Report, error) {
	readings, err := s.sensors.List(ctx)
	if err != nil {
		return Report{}, err
	}
	feedings, err := s.feedings.List(ctx)
	if err != nil {
		return Report{}, err
	}
	lights, err := s.lights.List(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Readings: make([]ReadingRow, 0, len(readings)),
		Feedings: make([]FeedRow, 0, len(feedings)),
		Lights:   make([]LightRow, 0, len(lights)),
	}
	for _, r := range readings {
		report.Readings = append(report.Readings, ReadingRow{
			Date:       r.Timestamp.Format(models.DateLayout),
			Time:       r.Timestamp.Format(models.TimeLayout),
			Temp:       r.Temp,
			PH:         r.PH,
			TDS:        r.TDS,
			WaterLevel: r.WaterLevel,
			Eval:       r.Eval,
		})
	}
	for _, f := range feedings {
		report.Feedings = append(report.Feedings, FeedRow{
			Date: f.Timestamp.Format(models.DateLayout),
			Time: f.Timestamp.Format(models.TimeLayout),
			Data: f.Data,
		})
	}
	for _, l := range lights {
		report.Lights = append(report.Lights, LightRow{
			Date:   l.Timestamp.Format(models.DateLayout),
			Time:   l.Timestamp.Format(models.TimeLayout),
			Status: l.Status,
			Color:  l.Color,
		})
	}
	return report, nil
}
