package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID int64

	// Username is unique across all users and used for login.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}

// NewUser creates a user ready to be stored.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// Identity is the caller resolved from a session for the duration of one request.
type Identity struct {
	UserID   int64
	Username string
}
