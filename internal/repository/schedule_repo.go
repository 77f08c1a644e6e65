package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"aquarium_control/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite { return &ScheduleSQLite{db: db} }

// ErrScheduleNotFound is returned when a lookup by id matches nothing.
var ErrScheduleNotFound = errors.New("schedule not found")

const (
	insertScheduleSQL = `
		INSERT INTO schedules (working_time, working_date, description, frequency, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectScheduleCols = `
		SELECT id, working_time, working_date, description, frequency, status, created_at
		FROM schedules
	`
)

// Create inserts a new entry. CreatedAt is set to now (UTC) when zero.
func (r *ScheduleSQLite) Create(ctx context.Context, e models.ScheduleEntry) (int64, error) {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	} else {
		created = created.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertScheduleSQL,
		e.WorkingTime,
		e.WorkingDate,
		e.Description,
		e.Frequency,
		e.Status,
		created,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ScheduleSQLite) GetByID(ctx context.Context, id int64) (models.ScheduleEntry, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleCols+" WHERE id=?", id)
	e, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleEntry{}, ErrScheduleNotFound
	}
	return e, err
}

// ListByDateStatus returns entries with the given working date and status,
// ordered by working time.
func (r *ScheduleSQLite) ListByDateStatus(ctx context.Context, date, status string) ([]models.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectScheduleCols+" WHERE working_date=? AND status=? ORDER BY working_time ASC",
		date, status,
	)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

func (r *ScheduleSQLite) ListByDate(ctx context.Context, date string) ([]models.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		selectScheduleCols+" WHERE working_date=? ORDER BY working_time ASC",
		date,
	)
	if err != nil {
		return nil, err
	}
	return collectSchedules(rows)
}

// UpdateStatus flips status only when the current value still equals `from`
// (compare-and-swap). Returns false when another writer got there first.
func (r *ScheduleSQLite) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET status=? WHERE id=? AND status=?`,
		to, id, from,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ScheduleSQLite) UpdateDate(ctx context.Context, id int64, date string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE schedules SET working_date=? WHERE id=?`, date, id)
	return err
}

func (r *ScheduleSQLite) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Latest returns the most recently created entry.
func (r *ScheduleSQLite) Latest(ctx context.Context) (models.ScheduleEntry, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleCols+" ORDER BY created_at DESC, id DESC LIMIT 1")
	e, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScheduleEntry{}, ErrScheduleNotFound
	}
	return e, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	if err := row.Scan(
		&e.ID,
		&e.WorkingTime,
		&e.WorkingDate,
		&e.Description,
		&e.Frequency,
		&e.Status,
		&e.CreatedAt,
	); err != nil {
		return models.ScheduleEntry{}, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func collectSchedules(rows *sql.Rows) ([]models.ScheduleEntry, error) {
	defer rows.Close()

	out := make([]models.ScheduleEntry, 0, 16)
	for rows.Next() {
		e, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
