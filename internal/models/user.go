package models

import (
	"encoding/json"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account managed through the admin user table
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"` // Write-only; empty means unchanged
	Role     string `json:"role"`
}

// UnmarshalJSON accepts the backend's "_id" field
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = firstNonEmpty(u.ID, aux.MongoID)
	return nil
}

// Comment is a user comment attached to a venue
type Comment struct {
	ID        string    `json:"id,omitempty"`
	VenueID   string    `json:"venue,omitempty"`
	Username  string    `json:"username,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// UnmarshalJSON accepts "_id" and a nested author object
func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		MongoID string `json:"_id"`
		User    *struct {
			Username string `json:"username"`
		} `json:"user"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ID = firstNonEmpty(c.ID, aux.MongoID)
	if c.Username == "" && aux.User != nil {
		c.Username = aux.User.Username
	}
	return nil
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by the backend on successful login
type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
}
