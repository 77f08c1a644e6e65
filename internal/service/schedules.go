package service

import (
	"context"
	"errors"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"
)

// ScheduleParams is the API-layer payload for a new entry.
type ScheduleParams struct {
	WorkingTime string // HH:MM
	Description string // models.Desc*
	Frequency   string // Today | Everyday
}

// Cancellation types for Cancel.
const (
	CancelPermanent = "Permanent"
	CancelToday     = "Today"
)

var (
	errInvalidWorkingTime = errors.New("invalid workingTime: must be HH:MM")
	errInvalidDescription = errors.New("invalid desc: unknown schedule description")
	errInvalidFrequency   = errors.New("invalid freq: must be Today or Everyday")
	errInvalidCancelType  = errors.New("invalid type: must be Permanent or Today")
)

// ScheduleService creates and cancels entries. An entry created for the
// current minute fires immediately instead of waiting for the next scan,
// which would already have passed it by.
type ScheduleService struct {
	schedules repository.ScheduleRepo
	lights    repository.LightRepo
	gateway   Gateway
	log       *logger.Logger

	now func() time.Time
}

func NewScheduleService(schedules repository.ScheduleRepo, lights repository.LightRepo, gateway Gateway, log *logger.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		lights:    lights,
		gateway:   gateway,
		log:       log,
		now:       time.Now,
	}
}

// Create validates and persists a new Pending entry dated today. The
// returned bool reports whether the entry fired immediately.
func (s *ScheduleService) Create(ctx context.Context, p ScheduleParams) (models.ScheduleEntry, bool, error) {
	if err := validateParams(p); err != nil {
		return models.ScheduleEntry{}, false, err
	}

	now := s.now()
	entry := models.ScheduleEntry{
		WorkingTime: p.WorkingTime,
		WorkingDate: now.Format(models.DateLayout),
		Description: p.Description,
		Frequency:   p.Frequency,
		Status:      models.StatusPending,
	}

	id, err := s.schedules.Create(ctx, entry)
	if err != nil {
		return models.ScheduleEntry{}, false, err
	}
	entry.ID = id
	s.log.Infow("schedule_created", "id", id, "desc", entry.Description, "time", entry.WorkingTime, "freq", entry.Frequency)

	if entry.WorkingTime != now.Format(models.TimeLayout) {
		return entry, false, nil
	}

	s.fireImmediately(ctx, &entry)
	return entry, true, nil
}

// fireImmediately handles the submit-at-working-time edge: run the device
// command now and mark the fresh entry handled. Command failures are
// logged; the entry is still marked per the best-effort policy.
func (s *ScheduleService) fireImmediately(ctx context.Context, entry *models.ScheduleEntry) {
	s.log.Infow("schedule_immediate_fire", "id", entry.ID, "desc", entry.Description)

	if entry.IsFeed() {
		if _, err := s.gateway.FeedInstant(ctx); err != nil {
			s.log.Errorw("immediate_feed_failed", "id", entry.ID, "err", err)
		}
	} else {
		color := models.DefaultLightColor
		if latest, err := s.lights.Latest(ctx); err == nil {
			color = latest.Color
		}
		status := entry.LightSwitch()
		if err := s.gateway.LightInstant(ctx, status, color); err != nil {
			s.log.Errorw("immediate_light_failed", "id", entry.ID, "err", err)
		}
		if _, err := s.lights.Insert(ctx, models.LightEvent{Status: status, Color: color}); err != nil {
			s.log.Errorw("light_event_store_failed", "id", entry.ID, "err", err)
		}
	}

	if _, err := s.schedules.UpdateStatus(ctx, entry.ID, models.StatusPending, models.StatusSuccess); err != nil {
		s.log.Errorw("schedule_status_update_failed", "id", entry.ID, "err", err)
		return
	}
	entry.Status = models.StatusSuccess
}

// ListUpcoming returns today's entries plus recurring entries already
// advanced to tomorrow (handled today, pending reset at midnight) so the
// dashboard shows the complete picture.
func (s *ScheduleService) ListUpcoming(ctx context.Context) ([]models.ScheduleEntry, error) {
	now := s.now()
	today := now.Format(models.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)

	entries, err := s.schedules.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}

	advanced, err := s.schedules.ListByDateStatus(ctx, tomorrow, models.StatusSuccess)
	if err != nil {
		return nil, err
	}

	return append(entries, advanced...), nil
}

// Cancel removes an entry permanently or defers a recurring entry to
// tomorrow (skipping just today's occurrence).
func (s *ScheduleService) Cancel(ctx context.Context, id int64, cancelType string) error {
	switch cancelType {
	case CancelPermanent:
		if err := s.schedules.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Infow("schedule_canceled", "id", id)
		return nil

	case CancelToday:
		entry, err := s.schedules.GetByID(ctx, id)
		if err != nil {
			return err
		}
		day, err := time.Parse(models.DateLayout, entry.WorkingDate)
		if err != nil {
			return err
		}
		next := day.AddDate(0, 0, 1).Format(models.DateLayout)
		if err := s.schedules.UpdateDate(ctx, id, next); err != nil {
			return err
		}
		s.log.Infow("schedule_deferred", "id", id, "next_date", next)
		return nil

	default:
		return errInvalidCancelType
	}
}

func validateParams(p ScheduleParams) error {
	if _, err := time.Parse(models.TimeLayout, p.WorkingTime); err != nil {
		return errInvalidWorkingTime
	}
	switch p.Description {
	case models.DescFeedOn, models.DescLightOn, models.DescLightOff:
	default:
		return errInvalidDescription
	}
	switch p.Frequency {
	case models.FreqToday, models.FreqEveryday:
	default:
		return errInvalidFrequency
	}
	return nil
}
