package db

import (
	"context"
	"fmt"
	"venue-guide/internal/i18n"
	"venue-guide/internal/session"
)

const (
	settingToken    = "auth.token"
	settingRole     = "auth.role"
	settingUsername = "auth.username"
	settingLanguage = "app.language"
)

// LoadSession implements session.Store
func (db *DB) LoadSession(ctx context.Context) (session.Session, error) {
	var rows []struct {
		Name  string `db:"name"`
		Value string `db:"value"`
	}
	if err := db.SelectContext(ctx, &rows, `SELECT name, value FROM settings`); err != nil {
		return session.Session{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var s session.Session
	for _, r := range rows {
		switch r.Name {
		case settingToken:
			s.Token = r.Value
		case settingRole:
			s.Role = r.Value
		case settingUsername:
			s.Username = r.Value
		case settingLanguage:
			s.Locale = i18n.ParseLocale(r.Value)
		}
	}
	return s, nil
}

// SaveSession implements session.Store
func (db *DB) SaveSession(ctx context.Context, s session.Session) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	values := map[string]string{
		settingToken:    s.Token,
		settingRole:     s.Role,
		settingUsername: s.Username,
		settingLanguage: string(s.Locale),
	}
	for name, value := range values {
		if value == "" {
			if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE name = ?`, name); err != nil {
				return err
			}
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value`, name, value)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// ClearSession implements session.Store
func (db *DB) ClearSession(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM settings WHERE name LIKE 'auth.%'`)
	return err
}
