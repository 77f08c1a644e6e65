package service

import (
	"context"
	"errors"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/repository"
)

const alertTitleQuality = "Water Quality Alert"

// WaterMonitor is the periodic sensor-window pass: it re-derives the
// per-metric deviations of the most recent reading, pushes them to the
// device display and alerts the user when severity leaves the Green band.
type WaterMonitor struct {
	sensors  repository.SensorRepo
	prefs    repository.PreferencesRepo
	gateway  Gateway
	notifier Notifier
	log      *logger.Logger
}

func NewWaterMonitor(sensors repository.SensorRepo, prefs repository.PreferencesRepo, gateway Gateway, notifier Notifier, log *logger.Logger) *WaterMonitor {
	return &WaterMonitor{
		sensors:  sensors,
		prefs:    prefs,
		gateway:  gateway,
		notifier: notifier,
		log:      log,
	}
}

// Check runs one pass. No stored reading yet is not an error, there is
// simply nothing to report.
func (m *WaterMonitor) Check(ctx context.Context) error {
	latest, err := m.sensors.Latest(ctx)
	if errors.Is(err, repository.ErrNoReadings) {
		m.log.Infow("water_check_skipped", "reason", "no readings stored")
		return nil
	}
	if err != nil {
		return err
	}

	prefs, found, err := m.prefs.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return ErrPreferencesMissing
	}

	deviations := Deviations(latest, prefs)
	if err := m.gateway.PublishQuality(ctx, latest.Eval, deviations); err != nil {
		m.log.Errorw("quality_publish_failed", "err", err)
	}

	body, alert := qualityAlertBody(latest.Eval)
	if !alert {
		m.log.Infow("water_quality_ok", "eval", latest.Eval, "timestamp", latest.Timestamp)
		return nil
	}

	if err := m.notifier.SendAlert(alertTitleQuality, body, latest.Eval); err != nil {
		m.log.Errorw("quality_alert_failed", "err", err)
		return err
	}
	return nil
}
