package service

import (
	"context"
	"errors"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
)

// SensorSample is an unclassified measurement from the API layer.
type SensorSample struct {
	Temp    float64 `json:"temp"`
	PH      float64 `json:"ph"`
	TDS     float64 `json:"tds"`
	WaterLv float64 `json:"waterLv"`
}

// Overview is the latest reading plus its per-metric deviations.
type Overview struct {
	Reading    models.SensorReading
	Deviations []models.Deviation
}

// SensorService classifies and stores readings, and serves the dashboard's
// latest-overview query (which doubles as the on-demand quality push).
type SensorService struct {
	sensors  repository.SensorRepo
	prefs    repository.PreferencesRepo
	gateway  Gateway
	notifier Notifier
	log      *logger.Logger
}

func NewSensorService(sensors repository.SensorRepo, prefs repository.PreferencesRepo, gateway Gateway, notifier Notifier, log *logger.Logger) *SensorService {
	return &SensorService{
		sensors:  sensors,
		prefs:    prefs,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
	}
}

// Store classifies a sample against the current preferences and persists
// it. ErrPreferencesMissing when the user never configured bands.
func (s *SensorService) Store(ctx context.Context, sample SensorSample) (models.SensorReading, error) {
	prefs, found, err := s.prefs.Load(ctx)
	if err != nil {
		return models.SensorReading{}, err
	}
	if !found {
		return models.SensorReading{}, ErrPreferencesMissing
	}

	reading := models.SensorReading{
		Temp:       sample.Temp,
		PH:         sample.PH,
		TDS:        sample.TDS,
		WaterLevel: sample.WaterLv,
	}
	reading.Eval = Classify(reading, prefs)

	id, err := s.sensors.Insert(ctx, reading)
	if err != nil {
		return models.SensorReading{}, err
	}
	reading.ID = id

	s.log.Infow("sensor_reading_stored", "id", id, "eval", reading.Eval)
	return reading, nil
}

// LatestOverview returns the most recent reading with its deviations,
// pushes the quality view to the device display and alerts the user when
// the severity left the Green band.
func (s *SensorService) LatestOverview(ctx context.Context) (Overview, error) {
	latest, err := s.sensors.Latest(ctx)
	if err != nil {
		return Overview{}, err
	}

	prefs, found, err := s.prefs.Load(ctx)
	if err != nil {
		return Overview{}, err
	}
	if !found {
		return Overview{}, ErrPreferencesMissing
	}

	deviations := Deviations(latest, prefs)
	if err := s.gateway.PublishQuality(ctx, latest.Eval, deviations); err != nil {
		s.log.Errorw("quality_publish_failed", "err", err)
	}

	if body, alert := qualityAlertBody(latest.Eval); alert {
		if err := s.notifier.SendAlert(alertTitleQuality, body, latest.Eval); err != nil {
			s.log.Errorw("quality_alert_failed", "err", err)
		}
	}

	return Overview{Reading: latest, Deviations: deviations}, nil
}

// ReevaluateLatest re-classifies the most recent reading after a
// preferences change so the dashboard reflects the new bands immediately.
func (s *SensorService) ReevaluateLatest(ctx context.Context) error {
	latest, err := s.sensors.Latest(ctx)
	if errors.Is(err, repository.ErrNoReadings) {
		return nil
	}
	if err != nil {
		return err
	}

	prefs, found, err := s.prefs.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ErrPreferencesMissing
	}

	eval := Classify(latest, prefs)
	if eval == latest.Eval {
		return nil
	}
	return s.sensors.UpdateEval(ctx, latest.ID, eval)
}

// Latest returns the most recent stored reading without side effects; the
// WebSocket push loop polls it.
func (s *SensorService) Latest(ctx context.Context) (models.SensorReading, error) {
	return s.sensors.Latest(ctx)
}
