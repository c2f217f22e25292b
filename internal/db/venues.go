package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"venue-guide/internal/models"
)

// ErrNotFound is returned when a record does not exist in the cache
var ErrNotFound = errors.New("not found")

const venueColumns = `id, name, name_chinese, latitude, longitude, district, area, address, position`

const eventColumns = `id, venue_id, title, title_chinese, date, date_chinese, date_time,
	description, description_chinese, presenter, presenter_chinese, price, position`

// ReplaceCatalog swaps the cached venues and events for a fresh copy in a
// single transaction. Each venue's events are stored under that venue.
func (db *DB) ReplaceCatalog(ctx context.Context, venues []models.Venue) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM venues`); err != nil {
		return fmt.Errorf("failed to clear venues: %w", err)
	}

	insertVenue := `INSERT INTO venues (` + venueColumns + `) VALUES (
		:id, :name, :name_chinese, :latitude, :longitude, :district, :area, :address, :position
	)`
	insertEvent := `INSERT INTO events (` + eventColumns + `) VALUES (
		:id, :venue_id, :title, :title_chinese, :date, :date_chinese, :date_time,
		:description, :description_chinese, :presenter, :presenter_chinese, :price, :position
	)
	ON CONFLICT(id) DO NOTHING`

	for i := range venues {
		v := venues[i]
		v.Position = i
		if _, err := tx.NamedExecContext(ctx, insertVenue, &v); err != nil {
			return fmt.Errorf("failed to insert venue %s: %w", v.ID, err)
		}

		for j := range v.Events {
			e := v.Events[j]
			e.Position = j
			e.Venue.ID = v.ID
			if _, err := tx.NamedExecContext(ctx, insertEvent, &e); err != nil {
				return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
			}
		}
	}

	return tx.Commit()
}

// ListVenues returns all cached venues with their events, in backend order
func (db *DB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := db.SelectContext(ctx, &venues, `SELECT `+venueColumns+` FROM venues ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}

	var events []models.Event
	err = db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events ORDER BY venue_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	byVenue := make(map[string][]models.Event, len(venues))
	for _, e := range events {
		byVenue[e.Venue.ID] = append(byVenue[e.Venue.ID], e)
	}
	for i := range venues {
		venues[i].Events = byVenue[venues[i].ID]
		if venues[i].Events == nil {
			venues[i].Events = []models.Event{}
		}
	}

	return venues, nil
}

// GetVenue returns a single venue with its events
func (db *DB) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	var v models.Venue
	err := db.GetContext(ctx, &v, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	v.Events = []models.Event{}
	err = db.SelectContext(ctx, &v.Events, `SELECT `+eventColumns+` FROM events WHERE venue_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue events: %w", err)
	}

	return &v, nil
}

// ListDistricts returns the distinct non-empty districts for the filter dropdown
func (db *DB) ListDistricts(ctx context.Context) ([]string, error) {
	districts := []string{}
	err := db.SelectContext(ctx, &districts, `SELECT DISTINCT district FROM venues WHERE district != '' ORDER BY district`)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}
	return districts, nil
}

// SetVenueAddress stores a resolved address on a cached venue
func (db *DB) SetVenueAddress(ctx context.Context, id, address string) error {
	_, err := db.ExecContext(ctx, `UPDATE venues SET address = ? WHERE id = ?`, address, id)
	return err
}

// GetVenueCount returns total number of cached venues
func (db *DB) GetVenueCount(ctx context.Context) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM venues")
	return count, err
}
