package models

import (
	"time"
)

// Session contains data about an active API session
type Session struct {
	// The session ID (the token that identifies this session)
	ID string `json:"id"`
	// The ID of the user that has logged-in for this session
	UserID uint `json:"userId"`
	// When will the session expire?
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExpiredAt checks if the session has expired at the given point in time
func (s *Session) ExpiredAt(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
