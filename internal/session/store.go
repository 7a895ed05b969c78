package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found or expired")

// Store defines the interface for session state storage.
// State never outlives the process; implementations only decide how long
// idle sessions are kept and how many fit.
type Store interface {
	// Create starts an empty session and returns its ID.
	Create(ctx context.Context) (string, error)

	// Get returns the current state of a session.
	Get(ctx context.Context, id string) (State, error)

	// Update applies fn to the session's state and stores the result.
	// Calls for the same session are serialised. If fn returns an error the
	// stored state is left unchanged and the error is returned.
	Update(ctx context.Context, id string, fn func(State) (State, error)) (State, error)

	// Delete ends a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Size returns the number of live sessions.
	Size() int

	// CleanExpired drops idle sessions and returns how many were removed.
	CleanExpired() int
}
