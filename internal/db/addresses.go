package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"venue-guide/internal/geo"
)

// Coordinates are rounded to ~10m so nearby lookups share a cache entry
func coordKey(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// GetAddress returns a cached reverse-geocoded address
func (db *DB) GetAddress(ctx context.Context, p geo.Point, lang string) (string, error) {
	var addr string
	err := db.GetContext(ctx, &addr,
		`SELECT address FROM addresses WHERE lat_key = ? AND lng_key = ? AND lang = ?`,
		coordKey(p.Lat), coordKey(p.Lng), lang)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get address: %w", err)
	}
	return addr, nil
}

// SaveAddress caches a reverse-geocoded address
func (db *DB) SaveAddress(ctx context.Context, p geo.Point, lang, address string) error {
	query := `
		INSERT INTO addresses (lat_key, lng_key, lang, address, fetched_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(lat_key, lng_key, lang) DO UPDATE SET
			address = excluded.address,
			fetched_at = excluded.fetched_at
	`
	_, err := db.ExecContext(ctx, query, coordKey(p.Lat), coordKey(p.Lng), lang, address)
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	return nil
}
