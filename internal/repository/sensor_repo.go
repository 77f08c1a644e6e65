package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aquarium_control/internal/models"
)

// ErrNoReadings is returned when no sensor data has ever been stored.
var ErrNoReadings = errors.New("no sensor readings stored")

type SensorSQLite struct {
	db *sql.DB
}

func NewSensorSQLite(db *sql.DB) *SensorSQLite { return &SensorSQLite{db: db} }

const selectSensorCols = `
	SELECT id, temp, ph, tds, water_lv, eval, timestamp
	FROM sensor_data
`

// Insert stores a classified reading. Timestamp defaults to now (UTC).
func (r *SensorSQLite) Insert(ctx context.Context, reading models.SensorReading) (int64, error) {
	ts := reading.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sensor_data (temp, ph, tds, water_lv, eval, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		reading.Temp,
		reading.PH,
		reading.TDS,
		reading.WaterLevel,
		reading.Eval,
		ts,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Latest returns the most recent reading by timestamp.
func (r *SensorSQLite) Latest(ctx context.Context) (models.SensorReading, error) {
	row := r.db.QueryRowContext(ctx, selectSensorCols+" ORDER BY timestamp DESC, id DESC LIMIT 1")

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SensorReading{}, ErrNoReadings
	}
	return reading, err
}

// UpdateEval rewrites the stored severity of one reading. Used when new
// preferences re-classify the latest data.
func (r *SensorSQLite) UpdateEval(ctx context.Context, id int64, eval string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sensor_data SET eval=? WHERE id=?`, eval, id)
	return err
}

// List returns all readings ordered by timestamp ASC (report view).
func (r *SensorSQLite) List(ctx context.Context) ([]models.SensorReading, error) {
	rows, err := r.db.QueryContext(ctx, selectSensorCols+" ORDER BY timestamp ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, 64)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReading(row rowScanner) (models.SensorReading, error) {
	var reading models.SensorReading
	if err := row.Scan(
		&reading.ID,
		&reading.Temp,
		&reading.PH,
		&reading.TDS,
		&reading.WaterLevel,
		&reading.Eval,
		&reading.Timestamp,
	); err != nil {
		return models.SensorReading{}, err
	}
	reading.Timestamp = reading.Timestamp.UTC()
	return reading, nil
}
