package service

import (
	"context"

	"aquarium_control/internal/logger"
	"aquarium_control/internal/models"
	"aquarium_control/internal/mqtt"
	"aquarium_control/internal/repository"
)

// Transport is the injected messaging client. *mqtt.Client satisfies it;
// tests substitute a fake.
type Transport interface {
	Connect() error
	Publish(topic string, payload []byte) error
	Handle(topic string, h mqtt.Handler)
	Topic(name string) string
}

// Notifier is the push-notification collaborator. Severity tags the alert
// for the client UI ("info", "Orange", "Red").
type Notifier interface {
	SendAlert(title, body, severity string) error
}

// Gateway exposes high-level device operations: publish a command, await
// the correlated acknowledgement, record the outcome.
type Gateway interface {
	FeedInstant(ctx context.Context) (string, error)
	LightInstant(ctx context.Context, switchState, color string) error
	PublishStatus(ctx context.Context) error
	PublishQuality(ctx context.Context, eval string, notices []models.Deviation) error
	PublishTankHeight(height float64) error
}

// Schedules manages schedule-entry lifecycle driven by the API layer.
type Schedules interface {
	Create(ctx context.Context, p ScheduleParams) (models.ScheduleEntry, bool, error)
	ListUpcoming(ctx context.Context) ([]models.ScheduleEntry, error)
	Cancel(ctx context.Context, id int64, cancelType string) error
}

// Sensors stores and evaluates readings. Latest is the side-effect-free
// read the WebSocket loop polls; LatestOverview additionally pushes the
// quality view and alerts.
type Sensors interface {
	Store(ctx context.Context, sample SensorSample) (models.SensorReading, error)
	Latest(ctx context.Context) (models.SensorReading, error)
	LatestOverview(ctx context.Context) (Overview, error)
	ReevaluateLatest(ctx context.Context) error
}

// Preferences manages the singleton threshold bands.
type Preferences interface {
	Get(ctx context.Context) (models.UserPreferences, error)
	Update(ctx context.Context, p models.UserPreferences) error
}

// Reports builds the full history export.
type Reports interface {
	Build(ctx context.Context) (Report, error)
}

// Tokens registers push-notification targets.
type Tokens interface {
	Register(ctx context.Context, token string) (bool, error)
}

// Scheduler runs the periodic engine (trigger scan, alerts, daily reset,
// water check) until the context is canceled.
type Scheduler interface {
	Run(ctx context.Context)
}

// Feedings and Lights expose the latest device events for the API layer.
type Feedings interface {
	LatestFeed(ctx context.Context) (models.FeedEvent, error)
}

type Lights interface {
	LatestLight(ctx context.Context) (models.LightEvent, error)
	RecordLight(ctx context.Context, status, color string) error
	ChangeColor(ctx context.Context, color string) (models.LightEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Gateway
	Schedules
	Sensors
	Preferences
	Reports
	Tokens
	Scheduler
	Feedings
	Lights
	Notifier
}

// NewService wires repositories, the transport and the notify collaborator
// into concrete services, and registers the inbound topic routing table.
func NewService(repos *repository.Repository, transport Transport, corr *mqtt.Correlator, notifier Notifier, log *logger.Logger) *Service {
	gateway := NewGatewayService(transport, corr, repos.Feedings, repos.Lights, log)
	sensors := NewSensorService(repos.Sensors, repos.Preferences, gateway, notifier, log)
	monitor := NewWaterMonitor(repos.Sensors, repos.Preferences, gateway, notifier, log)
	engine := NewSchedulerEngine(repos.Schedules, repos.Lights, gateway, notifier, monitor, log)
	lights := NewLightService(repos.Lights, gateway, log)

	bridge := NewBridge(transport, corr, repos.Sensors, repos.Preferences, repos.Feedings, repos.Lights, gateway, log)
	bridge.Register()

	return &Service{
		Gateway:     gateway,
		Schedules:   NewScheduleService(repos.Schedules, repos.Lights, gateway, log),
		Sensors:     sensors,
		Preferences: NewPreferencesService(repos.Preferences, sensors, gateway, log),
		Reports:     NewReportService(repos.Sensors, repos.Feedings, repos.Lights),
		Tokens:      NewTokenService(repos.Tokens),
		Scheduler:   engine,
		Feedings:    NewFeedService(repos.Feedings),
		Lights:      lights,
		Notifier:    notifier,
	}
}
