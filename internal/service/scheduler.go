package service

import (
	"context"
	"sync"
	"time"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/repository"

	"github.com/robfig/cron/v3"
)

// Cron specs for the periodic tasks.
const (
	specEveryMinute = "* * * * *"
	specQuarterHour = "*/15 * * * *"
	specMidnight    = "0 0 * * *"
)

// Near-trigger alert window, in minutes before the working time. The
// one-minute cadence visits the open (2.5, 3.5) window once per entry.
const (
	alertWindowLow  = 2.5
	alertWindowHigh = 3.5
	countdownMaxMin = 10.0
)

const alertTitleTask = "Task Triggering Alert"

// QualityChecker is the 15-minute sensor window pass the engine schedules.
type QualityChecker interface {
	Check(ctx context.Context) error
}

// SchedulerEngine owns the four periodic tasks: the trigger scan, the
// near-trigger alert scan, the daily reset, and the water-quality check.
// Every pass catches per-entry failures so one bad entry never stops the
// batch or the runner.
type SchedulerEngine struct {
	schedules repository.ScheduleRepo
	lights    repository.LightRepo
	gateway   Gateway
	notifier  Notifier
	checker   QualityChecker
	log       *logger.Logger

	// now is an injectable clock for tests.
	now func() time.Time

	// fired debounces the exact-minute match per entry: a scan that runs
	// twice inside one minute must not double-trigger. Missed minutes are
	// not caught up.
	mu    sync.Mutex
	fired map[int64]string
}

func NewSchedulerEngine(schedules repository.ScheduleRepo, lights repository.LightRepo, gateway Gateway, notifier Notifier, checker QualityChecker, log *logger.Logger) *SchedulerEngine {
	return &SchedulerEngine{
		schedules: schedules,
		lights:    lights,
		gateway:   gateway,
		notifier:  notifier,
		checker:   checker,
		log:       log,
		now:       time.Now,
		fired:     make(map[int64]string),
	}
}

// Run registers the periodic tasks and blocks until ctx is canceled.
func (s *SchedulerEngine) Run(ctx context.Context) {
	c := cron.New()

	jobs := []struct {
		spec string
		name string
		fn   func(context.Context)
	}{
		{specEveryMinute, "trigger_scan", s.TriggerScan},
		{specEveryMinute, "near_trigger_scan", s.NearTriggerScan},
		{specMidnight, "daily_reset", s.DailyReset},
		{specQuarterHour, "water_check", s.waterCheck},
	}
	for _, j := range jobs {
		job := j
		if _, err := c.AddFunc(job.spec, func() { s.runGuarded(ctx, job.name, job.fn) }); err != nil {
			s.log.Fatalw("scheduler_register_failed", "job", job.name, "err", err)
		}
	}

	c.Start()
	s.log.Infow("scheduler_started")

	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Infow("scheduler_stopped")
}

// runGuarded keeps a panicking pass from killing the cron runner.
func (s *SchedulerEngine) runGuarded(ctx context.Context, name string, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("scheduled_task_panic", "job", name, "panic", r)
		}
	}()
	fn(ctx)
}

// TriggerScan fires every entry pending for today whose working time equals
// the current minute. After dispatch the entry is unconditionally marked
// Success; a device-command failure is alerted and logged but does not
// block marking the schedule as handled.
func (s *SchedulerEngine) TriggerScan(ctx context.Context) {
	now := s.now()
	today := now.Format(models.DateLayout)
	minute := now.Format(models.TimeLayout)

	entries, err := s.schedules.ListByDateStatus(ctx, today, models.StatusPending)
	if err != nil {
		s.log.Errorw("trigger_scan_load_failed", "err", err)
		return
	}

	minuteKey := today + " " + minute
	s.pruneFired(minuteKey)

	for _, entry := range entries {
		if entry.WorkingTime != minute {
			continue
		}
		if !s.markFired(entry.ID, minuteKey) {
			continue
		}
		s.dispatch(ctx, entry, today)
	}
}

// markFired records the fired minute for an entry, returning false when the
// entry already fired in this minute.
func (s *SchedulerEngine) markFired(id int64, minuteKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fired[id] == minuteKey {
		return false
	}
	s.fired[id] = minuteKey
	return true
}

// pruneFired drops debounce records from past minutes. The guard only has
// to hold within the current minute, so everything else is dead weight,
// including ids of schedules canceled since they last fired.
func (s *SchedulerEngine) pruneFired(minuteKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, key := range s.fired {
		if key != minuteKey {
			delete(s.fired, id)
		}
	}
}

// dispatch performs one due entry: alert, device command, recurring-date
// advance, status flip. Failures are contained per entry.
func (s *SchedulerEngine) dispatch(ctx context.Context, entry models.ScheduleEntry, today string) {
	s.log.Infow("schedule_triggered", "id", entry.ID, "desc", entry.Description, "time", entry.WorkingTime)

	s.alert(alertTitleTask, "Performing schedule: "+entry.Description+"!", "info")

	if entry.IsFeed() {
		if _, err := s.gateway.FeedInstant(ctx); err != nil {
			s.commandFailed(entry, err)
		}
	} else {
		color := models.DefaultLightColor
		if latest, err := s.lights.Latest(ctx); err == nil {
			color = latest.Color
		}

		status := entry.LightSwitch()
		if err := s.gateway.LightInstant(ctx, status, color); err != nil {
			s.commandFailed(entry, err)
		}
		if _, err := s.lights.Insert(ctx, models.LightEvent{Status: status, Color: color}); err != nil {
			s.log.Errorw("light_event_store_failed", "id", entry.ID, "err", err)
		}
	}

	if entry.Frequency == models.FreqEveryday {
		s.advanceDate(ctx, entry, today)
	}

	swapped, err := s.schedules.UpdateStatus(ctx, entry.ID, models.StatusPending, models.StatusSuccess)
	if err != nil {
		s.log.Errorw("schedule_status_update_failed", "id", entry.ID, "err", err)
	} else if !swapped {
		s.log.Infow("schedule_status_already_changed", "id", entry.ID)
	}
}

// advanceDate moves a recurring entry's working date to the next calendar
// day at trigger time; the midnight reset later flips it back to Pending.
func (s *SchedulerEngine) advanceDate(ctx context.Context, entry models.ScheduleEntry, today string) {
	day, err := time.Parse(models.DateLayout, entry.WorkingDate)
	if err != nil {
		s.log.Errorw("schedule_date_parse_failed", "id", entry.ID, "date", entry.WorkingDate, "err", err)
		day, _ = time.Parse(models.DateLayout, today)
	}
	next := day.AddDate(0, 0, 1).Format(models.DateLayout)

	if err := s.schedules.UpdateDate(ctx, entry.ID, next); err != nil {
		s.log.Errorw("schedule_date_advance_failed", "id", entry.ID, "err", err)
		return
	}
	s.log.Infow("schedule_advanced", "id", entry.ID, "next_date", next)
}

// NearTriggerScan warns the user three minutes ahead of a pending entry and
// logs a countdown inside the last ten minutes.
func (s *SchedulerEngine) NearTriggerScan(ctx context.Context) {
	now := s.now()
	today := now.Format(models.DateLayout)

	entries, err := s.schedules.ListByDateStatus(ctx, today, models.StatusPending)
	if err != nil {
		s.log.Errorw("near_trigger_scan_load_failed", "err", err)
		return
	}

	for _, entry := range entries {
		wt, err := time.Parse(models.TimeLayout, entry.WorkingTime)
		if err != nil {
			s.log.Errorw("schedule_time_parse_failed", "id", entry.ID, "time", entry.WorkingTime, "err", err)
			continue
		}

		working := time.Date(now.Year(), now.Month(), now.Day(), wt.Hour(), wt.Minute(), 0, 0, now.Location())
		remaining := working.Sub(now).Minutes()

		switch {
		case remaining > alertWindowLow && remaining < alertWindowHigh:
			body := "Task: " + entry.Description + " will be triggered in 3 minutes!"
			s.log.Infow("schedule_near_trigger", "id", entry.ID, "desc", entry.Description)
			s.alert(alertTitleTask, body, "info")
		case remaining > 0 && remaining <= countdownMaxMin:
			s.log.Infow("schedule_countdown", "id", entry.ID, "minutes_left", int(remaining))
		}
	}
}

// DailyReset flips today's handled entries back to Pending. Recurring
// entries had their date advanced at trigger time, so by the time midnight
// runs their working date equals the new "today" and they rejoin the active
// pool. Running the pass twice is harmless: the second run finds nothing.
func (s *SchedulerEngine) DailyReset(ctx context.Context) {
	today := s.now().Format(models.DateLayout)

	entries, err := s.schedules.ListByDateStatus(ctx, today, models.StatusSuccess)
	if err != nil {
		s.log.Errorw("daily_reset_load_failed", "err", err)
		return
	}

	for _, entry := range entries {
		swapped, err := s.schedules.UpdateStatus(ctx, entry.ID, models.StatusSuccess, models.StatusPending)
		if err != nil {
			s.log.Errorw("daily_reset_update_failed", "id", entry.ID, "err", err)
			continue
		}
		if swapped {
			s.log.Infow("schedule_reset_to_pending", "id", entry.ID)
		}
	}
}

func (s *SchedulerEngine) waterCheck(ctx context.Context) {
	if err := s.checker.Check(ctx); err != nil {
		s.log.Errorw("water_check_failed", "err", err)
	}
}

// commandFailed makes a best-effort trigger's device failure observable:
// the schedule will still be marked Success, so the operator must hear
// about the failure some other way.
func (s *SchedulerEngine) commandFailed(entry models.ScheduleEntry, err error) {
	s.log.Errorw("schedule_command_failed", "id", entry.ID, "desc", entry.Description, "err", err)
	s.alert("Task Failed", "Schedule "+entry.Description+" could not reach the device!", "Red")
}

func (s *SchedulerEngine) alert(title, body, severity string) {
	if err := s.notifier.SendAlert(title, body, severity); err != nil {
		s.log.Errorw("alert_send_failed", "title", title, "err", err)
	}
}
