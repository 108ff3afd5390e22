// Package kv defines the durable key-value storage used for local app state.
// Values are opaque blobs addressed by string keys.
package kv

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrNotFound    = errors.New("key not found")
	ErrStoreClosed = errors.New("kv store is closed")
)

// Store defines the interface for blob persistence.
// Implementations must be safe for concurrent use; they do not provide
// read-modify-write atomicity across calls.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Close closes the store.
	Close() error
}
