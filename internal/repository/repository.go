package repository

import (
	"context"
	"database/sql"

	"aquarium_control/internal/models"
	"aquarium_control/internal/repository/db"
)

// ScheduleRepo is the narrow store interface the scheduler engine and API
// layer mutate schedule entries through. Status transitions are
// compare-and-swap so concurrent passes cannot double-apply.
type ScheduleRepo interface {
	Create(ctx context.Context, e models.ScheduleEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (models.ScheduleEntry, error)
	ListByDateStatus(ctx context.Context, date, status string) ([]models.ScheduleEntry, error)
	ListByDate(ctx context.Context, date string) ([]models.ScheduleEntry, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error)
	UpdateDate(ctx context.Context, id int64, date string) error
	Delete(ctx context.Context, id int64) error
	Latest(ctx context.Context) (models.ScheduleEntry, error)
}

type SensorRepo interface {
	Insert(ctx context.Context, r models.SensorReading) (int64, error)
	Latest(ctx context.Context) (models.SensorReading, error)
	UpdateEval(ctx context.Context, id int64, eval string) error
	List(ctx context.Context) ([]models.SensorReading, error)
}

type FeedRepo interface {
	Insert(ctx context.Context, e models.FeedEvent) (int64, error)
	Latest(ctx context.Context) (models.FeedEvent, error)
	List(ctx context.Context) ([]models.FeedEvent, error)
}

type LightRepo interface {
	Insert(ctx context.Context, e models.LightEvent) (int64, error)
	Latest(ctx context.Context) (models.LightEvent, error)
	List(ctx context.Context) ([]models.LightEvent, error)
}

// PreferencesRepo manages the singleton preferences row. Load returns
// found=false when the user never saved preferences; callers decide whether
// that is an error (classification) or gets defaults (API reads).
type PreferencesRepo interface {
	Load(ctx context.Context) (models.UserPreferences, bool, error)
	Save(ctx context.Context, p models.UserPreferences) error
}

type TokenRepo interface {
	Save(ctx context.Context, token string) (created bool, err error)
	List(ctx context.Context) ([]string, error)
}

type Repository struct {
	Schedules   ScheduleRepo
	Sensors     SensorRepo
	Feedings    FeedRepo
	Lights      LightRepo
	Preferences PreferencesRepo
	Tokens      TokenRepo
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Schedules:   NewScheduleSQLite(sqlDB),
		Sensors:     NewSensorSQLite(sqlDB),
		Feedings:    NewFeedSQLite(sqlDB),
		Lights:      NewLightSQLite(sqlDB),
		Preferences: NewPreferencesSQLite(sqlDB),
		Tokens:      NewTokenSQLite(sqlDB),
	}
}

// InitDB opens the SQLite file and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
