package kv

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It supports failure injection and
// artificial latency so callers can exercise error and interleaving paths.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	closed   bool
	readErr  error
	writeErr error
	latency  time.Duration
	gets     int
	sets     int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// FailReads makes every subsequent Get return err. Pass nil to stop failing.
func (s *MemoryStore) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// FailWrites makes every subsequent Set and Delete return err. Pass nil to stop failing.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// SetLatency delays every Get and Set by d.
func (s *MemoryStore) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Counts returns how many Get and Set calls have been made.
func (s *MemoryStore) Counts() (gets, sets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets
}

func (s *MemoryStore) wait(ctx context.Context) error {
	s.mu.Lock()
	d := s.latency
	s.mu.Unlock()
	if d == 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get returns a copy of the value stored at key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.gets++
	if s.closed {
		return nil, ErrStoreClosed
	}
	if s.readErr != nil {
		return nil, s.readErr
	}

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of value at key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets++
	if s.closed {
		return ErrStoreClosed
	}
	if s.writeErr != nil {
		return s.writeErr
	}

	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if s.writeErr != nil {
		return s.writeErr
	}

	delete(s.data, key)
	return nil
}

// Keys returns all keys in lexical order.
func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the store. Closing twice is a no-op.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
