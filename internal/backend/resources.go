package backend

import (
	"context"
	"net/http"
	"net/url"

	"venue-guide/internal/models"
)

// Login exchanges credentials for a bearer token and role
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVenues returns every venue, usually with its events embedded
func (c *Client) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := c.do(ctx, http.MethodGet, "/venues", nil, &venues)
	return venues, err
}

// ListEvents returns every event
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := c.do(ctx, http.MethodGet, "/events", nil, &events)
	return events, err
}

// CreateEvent adds an event
func (c *Client) CreateEvent(ctx context.Context, e models.Event) (*models.Event, error) {
	var out models.Event
	if err := c.do(ctx, http.MethodPost, "/events", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent replaces an event
func (c *Client) UpdateEvent(ctx context.Context, id string, e models.Event) (*models.Event, error) {
	var out models.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEvent removes an event
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil)
}

// ListUsers returns every account
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

// CreateUser adds an account
func (c *Client) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser changes an account. An empty password is left out of the
// request so the existing one is kept.
func (c *Client) UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// ListComments returns the comments on a venue
func (c *Client) ListComments(ctx context.Context, venueID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, "/comments/"+url.PathEscape(venueID), nil, &comments)
	return comments, err
}

// AddComment posts a comment on a venue
func (c *Client) AddComment(ctx context.Context, venueID, text string) (*models.Comment, error) {
	var out models.Comment
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/comments/"+url.PathEscape(venueID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFavorites returns the signed-in user's favorite venues
func (c *Client) ListFavorites(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := c.do(ctx, http.MethodGet, "/favorites", nil, &venues)
	return venues, err
}

// AddFavorite marks a venue as favorite
func (c *Client) AddFavorite(ctx context.Context, venueID string) error {
	return c.do(ctx, http.MethodPost, "/favorites/"+url.PathEscape(venueID), nil, nil)
}

// RemoveFavorite unmarks a favorite venue
func (c *Client) RemoveFavorite(ctx context.Context, venueID string) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(venueID), nil, nil)
}
