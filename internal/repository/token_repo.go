package repository

import (
	"context"
	"database/sql"
	"time"
)

type TokenSQLite struct {
	db *sql.DB
}

func NewTokenSQLite(db *sql.DB) *TokenSQLite { return &TokenSQLite{db: db} }

// Save stores a push token once; saving an existing token is a no-op.
// Returns whether a new row was created.
func (r *TokenSQLite) Save(ctx context.Context, token string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO device_tokens (token, timestamp) VALUES (?, ?)
		 ON CONFLICT(token) DO NOTHING`,
		token, time.Now().UTC(),
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

// List returns every registered token.
func (r *TokenSQLite) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT token FROM device_tokens ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
