package model

import "github.com/google/uuid"

// Profile is the display identity of a user as the client renders it in
// call pop-ups and notification toasts. It is owned by the application
// backend; the hub only caches and forwards it.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Headline    string    `json:"headline,omitempty"`
}

// NewProfile builds a bare profile carrying only the identity. Enrichment
// fills the rest from the backend.
func NewProfile(id uuid.UUID) Profile {
	return Profile{ID: id}
}

// AuthSession is the result of validating a client-supplied credential
// against the application backend.
type AuthSession struct {
	UserID    uuid.UUID
	Username  string
	ExpiresAt int64
}
