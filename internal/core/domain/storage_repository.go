package domain

import (
	"context"
	"errors"
)

// ErrStorageUnavailable is returned by a KeyValueStore whose underlying medium
// cannot be reached at all. Callers treat it as fatal.
var ErrStorageUnavailable = errors.New("storage unavailable")

// KeyValueStore is origin-scoped string storage, the durable backing for the
// credential store. Implementations live in internal/core/repository.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any existing entry.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
