package sessions

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an entry is not found in the database.
	ErrNotFound = errors.New("session not found")
)

// DB represents the database for encoded session data.
type DB interface {
	// Save saves a session to the database. The entry may be dropped by the
	// database once ttl has passed.
	Save(ctx context.Context, sessionID string, s EncodedSession, ttl time.Duration) error

	// Del deletes a session from the database.
	//
	// An error is not returned if the session does not exist.
	Del(ctx context.Context, sessionID string) error

	// Get gets a session from the database.
	//
	// An ErrNotFound error MUST be returned if a session is not found
	// for the session ID.
	Get(ctx context.Context, sessionID string) (*EncodedSession, error)
}

// EncodedSession contains a session's encoded values.
type EncodedSession struct {
	Values string
}
