// Package kvstore is a small string key-value store with per-key expiry,
// backed by Redis in production and by process memory in development.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key is absent or has expired.
	ErrNotFound = errors.New("kvstore: key not found")
)

// NoExpiry is reported by TTL for keys that exist without an expiry.
const NoExpiry time.Duration = -1

// Store holds short-lived string values. Every single-key operation is atomic.
type Store interface {
	// Get returns the value of key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value and expiry.
	// A ttl <= 0 stores the key without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// GetDel returns the value of key and removes it in one step, or ErrNotFound.
	GetDel(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// TTL returns the remaining lifetime of key, NoExpiry for persistent keys,
	// or ErrNotFound.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
