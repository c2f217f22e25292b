package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SyncRun records one catalog refresh
type SyncRun struct {
	ID         int64     `db:"id" json:"id"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
	Venues     int       `db:"venues" json:"venues"`
	Events     int       `db:"events" json:"events"`
	Geocoded   int       `db:"geocoded" json:"geocoded"`
	Error      string    `db:"error" json:"error,omitempty"`
}

// RecordSync stores the outcome of a sync
func (db *DB) RecordSync(ctx context.Context, run SyncRun) error {
	_, err := db.NamedExecContext(ctx, `
		INSERT INTO sync_runs (started_at, finished_at, venues, events, geocoded, error)
		VALUES (:started_at, :finished_at, :venues, :events, :geocoded, :error)`, run)
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// LastSync returns the most recent sync run
func (db *DB) LastSync(ctx context.Context) (*SyncRun, error) {
	var run SyncRun
	err := db.GetContext(ctx, &run, `
		SELECT id, started_at, finished_at, venues, events, geocoded, error
		FROM sync_runs ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync: %w", err)
	}
	return &run, nil
}
