// Package models defines client-side data models shared by the session
// coordinator, the identity adapter and the profile stores.
package models

import "time"

// Session is the currently authenticated principal.
type Session struct {
	// UserID is the opaque, stable identifier assigned by the identity backend.
	UserID string

	// Email is fixed at account creation.
	Email string

	// DisplayName is the mutable name shown to the user.
	DisplayName string
}

// Clone returns a copy of s, or nil when s is nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// StoredSession is what the identity adapter persists locally so that a
// restarted client can restore the previous session.
type StoredSession struct {
	Session
	IDToken      string
	RefreshToken string
	SavedAt      time.Time
}
