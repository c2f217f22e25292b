// Package session holds the signed-in user's token, role and language.
// It is created at the composition root and passed down explicitly; HTTP
// handlers get a per-request copy through the request context.
package session

import (
	"context"
	"errors"
	"fmt"

	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

// ErrNotAuthenticated is returned when an operation needs a token
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the state the portal keeps about the current user
type Session struct {
	Token    string      `json:"-"`
	Role     string      `json:"role,omitempty"`
	Username string      `json:"username,omitempty"`
	Locale   i18n.Locale `json:"locale"`
}

// Authenticated reports whether a bearer token is present
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the session belongs to an administrator
func (s Session) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

// Store persists a session between runs
type Store interface {
	LoadSession(ctx context.Context) (Session, error)
	SaveSession(ctx context.Context, s Session) error
	ClearSession(ctx context.Context) error
}

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
}

// Manager reads and writes the persisted session
type Manager struct {
	store Store
	auth  Authenticator
}

// NewManager creates a session manager
func NewManager(store Store, auth Authenticator) *Manager {
	return &Manager{store: store, auth: auth}
}

// Current returns the stored session, with the default locale filled in
func (m *Manager) Current(ctx context.Context) (Session, error) {
	s, err := m.store.LoadSession(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	if s.Locale == "" {
		s.Locale = i18n.Default
	}
	return s, nil
}

// Login authenticates and stores the resulting token and role. The
// language preference survives the login.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (Session, error) {
	if m.auth == nil {
		return Session{}, errors.New("no authenticator configured")
	}
	resp, err := m.auth.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	s.Token = resp.Token
	s.Role = resp.Role
	s.Username = resp.Username
	if s.Username == "" {
		s.Username = creds.Username
	}

	if err := m.store.SaveSession(ctx, s); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Logout drops the token, role and username but keeps the language
func (m *Manager) Logout(ctx context.Context) error {
	s, err := m.Current(ctx)
	if err != nil {
		return err
	}
	if err := m.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return m.store.SaveSession(ctx, Session{Locale: s.Locale})
}

// SetLocale stores the language preference
func (m *Manager) SetLocale(ctx context.Context, l i18n.Locale) (Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	s.Locale = l
	if err := m.store.SaveSession(ctx, s); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// ToggleLanguage switches between English and Chinese
func (m *Manager) ToggleLanguage(ctx context.Context) (Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	return m.SetLocale(ctx, s.Locale.Toggle())
}

type ctxKey struct{}

// WithContext attaches a session to ctx
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, or an anonymous
// session in the default locale
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Session{Locale: i18n.Default}
}
