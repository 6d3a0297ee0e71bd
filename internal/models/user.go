package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

// Caller is the authenticated identity an operation is performed on behalf of.
// It is resolved by the presentation layer and passed explicitly.
type Caller struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

func CallerFromUser(u *User) *Caller {
	if u == nil {
		return nil
	}
	return &Caller{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}
