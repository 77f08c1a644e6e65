package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaSchedules = `
CREATE TABLE IF NOT EXISTS schedules (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    working_time TEXT NOT NULL,
    working_date TEXT NOT NULL,
    description TEXT NOT NULL,
    frequency TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaSensorData = `
CREATE TABLE IF NOT EXISTS sensor_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    temp REAL NOT NULL,
    ph REAL NOT NULL,
    tds REAL NOT NULL,
    water_lv REAL NOT NULL,
    eval TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);
`

const schemaFeedingData = `
CREATE TABLE IF NOT EXISTS feeding_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    data TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);
`

const schemaLightData = `
CREATE TABLE IF NOT EXISTS light_data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    status TEXT NOT NULL,
    color TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);
`

const schemaUserPreferences = `
CREATE TABLE IF NOT EXISTS user_preferences (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    min_grn_temp REAL NOT NULL, max_grn_temp REAL NOT NULL,
    min_org_temp REAL NOT NULL, max_org_temp REAL NOT NULL,
    min_grn_ph REAL NOT NULL, max_grn_ph REAL NOT NULL,
    min_org_ph REAL NOT NULL, max_org_ph REAL NOT NULL,
    min_grn_tds REAL NOT NULL, max_grn_tds REAL NOT NULL,
    min_org_tds REAL NOT NULL, max_org_tds REAL NOT NULL,
    grn_water_lv REAL NOT NULL,
    org_water_lv REAL NOT NULL,
    tank_height REAL NOT NULL
);
`

const schemaDeviceTokens = `
CREATE TABLE IF NOT EXISTS device_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    token TEXT UNIQUE NOT NULL,
    timestamp TIMESTAMP NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSchedules,
		schemaSensorData,
		schemaFeedingData,
		schemaLightData,
		schemaUserPreferences,
		schemaDeviceTokens,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
