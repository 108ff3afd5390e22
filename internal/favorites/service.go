package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/artpar/marquee/internal/kv"
	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
)

// quarantineSuffix prefixes the keys that receive unreadable blobs before
// they are overwritten. Each quarantine gets its own timestamped key.
const quarantineSuffix = ".corrupt."

const quarantineTimeFormat = "20060102T150405.000000000Z"

// Service implements Store on top of a kv.Store.
//
// Every operation runs inside one critical section, so a read-modify-write
// cycle can never interleave with another and lose its update.
type Service struct {
	mu     sync.Mutex
	store  kv.Store
	key    string
	logger *slog.Logger
	now    func() time.Time

	// corrupt holds the raw bytes of a malformed blob seen by the last read.
	corrupt []byte
}

// Option is a function that configures the Service.
type Option func(*Service)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Service) {
		s.key = key
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the clock used to name quarantine keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a favorites service backed by store.
func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		key:   DefaultKey,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.New("favorites")
	}
	return s
}

// Key returns the storage key.
func (s *Service) Key() string {
	return s.key
}

// Load returns the stored collection. A missing or malformed blob loads as empty.
func (s *Service) Load(ctx context.Context) (movie.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx)
}

// Contains reports whether id is a favorite.
func (s *Service) Contains(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	return c.Contains(id), nil
}

// Add appends snap unless its id is already present, then writes the collection back.
func (s *Service) Add(ctx context.Context, snap movie.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return err
	}

	next, changed := c.With(snap)
	if err := s.write(ctx, next); err != nil {
		return err
	}

	s.logger.Debug("favorite added", "id", snap.ID, "changed", changed, "count", len(next))
	return nil
}

// Remove deletes id if present, then writes the collection back.
// It reports whether id was present.
func (s *Service) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	next, changed := c.Without(id)
	if err := s.write(ctx, next); err != nil {
		return false, err
	}

	s.logger.Debug("favorite removed", "id", id, "changed", changed, "count", len(next))
	return changed, nil
}

// Toggle flips membership of snap and returns the new state.
func (s *Service) Toggle(ctx context.Context, snap movie.Snapshot) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	if c.Contains(snap.ID) {
		next, _ := c.Without(snap.ID)
		return false, s.write(ctx, next)
	}

	next, _ := c.With(snap)
	if err := s.write(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of favorites.
func (s *Service) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return len(c), nil
}

// Clear removes the stored collection entirely. A malformed blob is
// quarantined first.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.read(ctx); err != nil {
		return err
	}
	if err := s.quarantine(ctx); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s.corrupt = nil
	return nil
}

// Validate checks the stored blob without repairing it.
// It returns ErrCorruptState for unparseable data or duplicate ids.
func (s *Service) Validate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	c, err := movie.DecodeCollection(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	if dupes := len(c) - len(c.Dedupe()); dupes > 0 {
		return fmt.Errorf("%w: %d duplicate ids", ErrCorruptState, dupes)
	}
	return nil
}

// Repair rewrites the stored collection in canonical form: duplicates are
// dropped and a malformed blob is moved aside and replaced by an empty list.
func (s *Service) Repair(ctx context.Context) (movie.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.write(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Quarantined lists the keys holding malformed blobs moved aside, oldest first.
func (s *Service) Quarantined(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	prefix := s.key + quarantineSuffix
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// read loads the collection. Callers must hold s.mu.
func (s *Service) read(ctx context.Context) (movie.Collection, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return movie.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	c, err := movie.DecodeCollection(data)
	if err != nil {
		s.logger.Warn("stored favorites are malformed, treating as empty",
			"key", s.key, "bytes", len(data), "error", err)
		s.corrupt = data
		return movie.Collection{}, nil
	}
	s.corrupt = nil

	return c.Dedupe(), nil
}

// write replaces the stored collection. Callers must hold s.mu.
// A malformed blob seen by the preceding read is copied aside first.
func (s *Service) write(ctx context.Context, c movie.Collection) error {
	if err := s.quarantine(ctx); err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}


var _ Store = (*Service)(nil)

// quarantine copies a malformed blob seen by the last read to a fresh
// timestamped key. Earlier quarantined blobs are never overwritten.
// Callers must hold s.mu.
func (s *Service) quarantine(ctx context.Context) error {
	if s.corrupt == nil {
		return nil
	}

	base := s.key + quarantineSuffix + s.now().UTC().Format(quarantineTimeFormat)
	key := base
	for n := 2; ; n++ {
		_, err := s.store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		key = fmt.Sprintf("%s-%d", base, n)
	}

	if err := s.store.Set(ctx, key, s.corrupt); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s.logger.Warn("malformed favorites moved aside", "key", key)
	s.corrupt = nil
	return nil
}
