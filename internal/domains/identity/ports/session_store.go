package ports

import (
	"context"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrTokenUnknown signals the presented token does not map to a live session.
var ErrTokenUnknown = errors.New("unknown or expired token")

// SessionStore abstracts auth token persistence.
type SessionStore interface {
	Save(ctx context.Context, username, token string) error
	Delete(ctx context.Context, username string) error
	// Resolve returns the username owning a live token, or ErrTokenUnknown.
	Resolve(ctx context.Context, token string) (string, error)
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ string) error { return nil }
func (noopSessionStore) Delete(_ context.Context, _ string) error         { return nil }
func (noopSessionStore) Resolve(_ context.Context, _ string) (string, error) {
	return "", ErrTokenUnknown
}
