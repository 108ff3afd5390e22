// Package filesystem stores kv entries as one file per key under a base directory.
package filesystem

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/artpar/marquee/internal/kv"
)

const fileExt = ".blob"

// Store manages kv persistence to the filesystem.
type Store struct {
	mu       sync.RWMutex
	basePath string
	closed   bool
}

// New creates a new filesystem-based kv store.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create kv directory: %w", err)
	}

	return &Store{
		basePath: basePath,
	}, nil
}

// Get reads the file backing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, kv.ErrStoreClosed
	}

	content, err := os.ReadFile(s.entryPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry file: %w", err)
	}

	return content, nil
}

// Set writes value to a temp file and renames it over the entry,
// so readers never observe a partially written blob.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrStoreClosed
	}

	tmp, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write entry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close entry file: %w", err)
	}

	if err := os.Rename(tmpName, s.entryPath(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace entry file: %w", err)
	}

	return nil
}

// Delete removes the file backing key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrStoreClosed
	}

	err := os.Remove(s.entryPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete entry file: %w", err)
	}

	return nil
}

// Keys returns all stored keys in lexical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, kv.ErrStoreClosed
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read kv directory: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		key, err := decodeKey(strings.TrimSuffix(entry.Name(), fileExt))
		if err != nil {
			continue // Skip foreign files
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Path returns the base directory.
func (s *Store) Path() string {
	return s.basePath
}

// Internal helpers

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.basePath, encodeKey(key)+fileExt)
}

// Keys may contain '/', ':' or '@', so file names carry them base64url encoded.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeKey(name string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ kv.Store = (*Store)(nil)
