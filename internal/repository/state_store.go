package repository

import (
	"context"
	"errors"
)

var (
	// ErrStateNotFound is returned by a StateStore when nothing is stored under a key.
	ErrStateNotFound = errors.New("state not found")
	// ErrMalformedState marks persisted data that cannot be decoded.
	ErrMalformedState = errors.New("malformed persisted state")
)

// StateStore persists opaque values under durable keys.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
