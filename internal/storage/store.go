// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// MarkerStore persists markers.
type MarkerStore interface {
	// ListMarkers returns every marker, newest (highest ID) first.
	ListMarkers(ctx context.Context) ([]*models.Marker, error)

	// GetMarker returns ErrNotFound if no marker has the given ID.
	GetMarker(ctx context.Context, id int64) (*models.Marker, error)

	// CreateMarker inserts the marker and populates marker.ID.
	CreateMarker(ctx context.Context, marker *models.Marker) error

	// UpdateMarker loads the marker, passes it to fn for modification and
	// writes the result, all in one transaction. An error from fn aborts
	// the update and is returned unchanged.
	UpdateMarker(ctx context.Context, id int64, fn func(*models.Marker) error) (*models.Marker, error)

	// DeleteMarker loads the marker, lets check veto the deletion and then
	// removes it, in one transaction. check may be nil.
	DeleteMarker(ctx context.Context, id int64, check func(*models.Marker) error) error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore persists server-side login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions that expired before now (Unix seconds).
	DeleteExpiredSessions(ctx context.Context, now int64) (int64, error)
}

// Store is the full persistence context handed to the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	MarkerStore
	UserStore
	SessionStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
