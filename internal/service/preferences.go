package service

import (
	"context"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
)

// PreferencesService manages the singleton threshold record. Reads fall
// back to the factory defaults; writes re-evaluate the latest reading and
// forward the tank height to the device.
type PreferencesService struct {
	prefs   repository.PreferencesRepo
	sensors Sensors
	gateway Gateway
	log     *logger.Logger
}

func NewPreferencesService(prefs repository.PreferencesRepo, sensors Sensors, gateway Gateway, log *logger.Logger) *PreferencesService {
	return &PreferencesService{
		prefs:   prefs,
		sensors: sensors,
		gateway: gateway,
		log:     log,
	}
}

// Get returns the stored preferences, or the defaults when the user never
// saved any.
func (s *PreferencesService) Get(ctx context.Context) (models.UserPreferences, error) {
	prefs, found, err := s.prefs.Load(ctx)
	if err != nil {
		return models.UserPreferences{}, err
	}
	if !found {
		return models.DefaultPreferences(), nil
	}
	return prefs, nil
}

// Update saves the new bands, re-classifies the latest reading against them
// and pushes the tank height to the device. The latter two are best-effort:
// the save is the authoritative part.
func (s *PreferencesService) Update(ctx context.Context, p models.UserPreferences) error {
	if err := s.prefs.Save(ctx, p); err != nil {
		return err
	}
	s.log.Infow("preferences_saved", "tank_height", p.TankHeight)

	if err := s.sensors.ReevaluateLatest(ctx); err != nil {
		s.log.Errorw("reevaluate_after_preferences_failed", "err", err)
	}

	if err := s.gateway.PublishTankHeight(p.TankHeight); err != nil {
		s.log.Errorw("tank_height_publish_failed", "err", err)
	}

	return nil
}
