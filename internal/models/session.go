package models

import "time"

// Session is a server-side login. Deleting the row logs the user out
// even if the signed token is still within its lifetime.
type Session struct {
	// ID is a random UUID, carried as the token's jti claim.
	ID string

	UserID int64

	// CreatedAt and ExpiresAt are Unix timestamps.
	CreatedAt int64
	ExpiresAt int64
}

// Expired reports whether the session is no longer valid at t.
func (s *Session) Expired(t time.Time) bool {
	return t.Unix() >= s.ExpiresAt
}
