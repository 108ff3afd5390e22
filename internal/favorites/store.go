// Package favorites owns the locally persisted list of favorite movies.
package favorites

import (
	"context"
	"errors"

	"github.com/artpar/marquee/internal/movie"
)

// DefaultKey is the storage key holding the serialized favorites collection.
const DefaultKey = "@FavoriteList"

// Common errors.
var (
	// ErrStorageUnavailable wraps any failure of the underlying kv store.
	ErrStorageUnavailable = errors.New("favorites storage unavailable")

	// ErrCorruptState reports a stored blob that is not a valid collection.
	ErrCorruptState = errors.New("favorites data is corrupt")
)

// Store defines the favorites contract shared by every view.
// Adding a present id and removing an absent id are silent no-ops.
type Store interface {
	// Load returns the whole collection in insertion order.
	Load(ctx context.Context) (movie.Collection, error)

	// Contains reports whether id is a favorite.
	Contains(ctx context.Context, id int64) (bool, error)

	// Add appends the snapshot unless its id is already present.
	Add(ctx context.Context, s movie.Snapshot) error

	// Remove deletes the movie with id if present and reports whether it was.
	Remove(ctx context.Context, id int64) (bool, error)
}
