package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aquarium_control/internal/models"
)

// Sentinels for empty event tables; callers usually substitute a default.
var (
	ErrNoFeedings = errors.New("no feeding events stored")
	ErrNoLights   = errors.New("no light events stored")
)

type FeedSQLite struct {
	db *sql.DB
}

func NewFeedSQLite(db *sql.DB) *FeedSQLite { return &FeedSQLite{db: db} }

func (r *FeedSQLite) Insert(ctx context.Context, e models.FeedEvent) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feeding_data (data, timestamp) VALUES (?, ?)`,
		e.Data, normalizeEventTime(e.Timestamp),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *FeedSQLite) Latest(ctx context.Context) (models.FeedEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, data, timestamp FROM feeding_data ORDER BY timestamp DESC, id DESC LIMIT 1`)

	var e models.FeedEvent
	if err := row.Scan(&e.ID, &e.Data, &e.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FeedEvent{}, ErrNoFeedings
		}
		return models.FeedEvent{}, err
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}

func (r *FeedSQLite) List(ctx context.Context) ([]models.FeedEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data, timestamp FROM feeding_data ORDER BY timestamp ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.FeedEvent, 0, 32)
	for rows.Next() {
		var e models.FeedEvent
		if err := rows.Scan(&e.ID, &e.Data, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type LightSQLite struct {
	db *sql.DB
}

func NewLightSQLite(db *sql.DB) *LightSQLite { return &LightSQLite{db: db} }

func (r *LightSQLite) Insert(ctx context.Context, e models.LightEvent) (int64, error) {
	color := e.Color
	if color == "" {
		color = models.DefaultLightColor
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO light_data (status, color, timestamp) VALUES (?, ?, ?)`,
		e.Status, color, normalizeEventTime(e.Timestamp),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *LightSQLite) Latest(ctx context.Context) (models.LightEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, status, color, timestamp FROM light_data ORDER BY timestamp DESC, id DESC LIMIT 1`)

	var e models.LightEvent
	if err := row.Scan(&e.ID, &e.Status, &e.Color, &e.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LightEvent{}, ErrNoLights
		}
		return models.LightEvent{}, err
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}

func (r *LightSQLite) List(ctx context.Context) ([]models.LightEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status, color, timestamp FROM light_data ORDER BY timestamp ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LightEvent, 0, 32)
	for rows.Next() {
		var e models.LightEvent
		if err := rows.Scan(&e.ID, &e.Status, &e.Color, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeEventTime ensures event timestamps are persisted as UTC, set when
// zero.
func normalizeEventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
