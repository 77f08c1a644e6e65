package service

import (
	"context"
	"errors"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
)

var errEmptyColor = errors.New("empty light color")

type FeedService struct {
	feedings repository.FeedRepo
}

func NewFeedService(feedings repository.FeedRepo) *FeedService {
	return &FeedService{feedings: feedings}
}

// LatestFeed returns the most recent feeding. Callers see
// repository.ErrNoFeedings when nothing was ever recorded.
func (s *FeedService) LatestFeed(ctx context.Context) (models.FeedEvent, error) {
	return s.feedings.Latest(ctx)
}

type LightService struct {
	lights  repository.LightRepo
	gateway Gateway
	log     *logger.Logger
}

func NewLightService(lights repository.LightRepo, gateway Gateway, log *logger.Logger) *LightService {
	return &LightService{lights: lights, gateway: gateway, log: log}
}

func (s *LightService) LatestLight(ctx context.Context) (models.LightEvent, error) {
	return s.lights.Latest(ctx)
}

// RecordLight sends the switch command to the device and persists the
// resulting state. An empty color keeps the last known one.
func (s *LightService) RecordLight(ctx context.Context, status, color string) error {
	if color == "" {
		color = s.currentColor(ctx)
	}
	if err := s.gateway.LightInstant(ctx, status, color); err != nil {
		return err
	}
	_, err := s.lights.Insert(ctx, models.LightEvent{
		Status:    status,
		Color:     color,
		Timestamp: time.Now(),
	})
	return err
}

// ChangeColor re-issues the light command with the current switch state and
// the new color, then records the change.
func (s *LightService) ChangeColor(ctx context.Context, color string) (models.LightEvent, error) {
	if color == "" {
		return models.LightEvent{}, errEmptyColor
	}

	status := models.LightOff
	last, err := s.lights.Latest(ctx)
	switch {
	case err == nil:
		status = last.Status
	case errors.Is(err, repository.ErrNoLights):
	default:
		return models.LightEvent{}, err
	}

	if err := s.gateway.LightInstant(ctx, status, color); err != nil {
		return models.LightEvent{}, err
	}

	event := models.LightEvent{
		Status:    status,
		Color:     color,
		Timestamp: time.Now(),
	}
	id, err := s.lights.Insert(ctx, event)
	if err != nil {
		return models.LightEvent{}, err
	}
	event.ID = id
	return event, nil
}

func (s *LightService) currentColor(ctx context.Context) string {
	last, err := s.lights.Latest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoLights) {
			s.log.Errorw("latest_light_lookup_failed", "err", err)
		}
		return models.DefaultLightColor
	}
	return last.Color
}
