package movie

import (
	"encoding/json"
	"fmt"
)

// Collection is an insertion-ordered list of snapshots, unique by ID.
// Methods never modify the receiver; they return a new slice.
type Collection []Snapshot

// IndexOf returns the position of id, or -1.
func (c Collection) IndexOf(id int64) int {
	for i, s := range c {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is present.
func (c Collection) Contains(id int64) bool {
	return c.IndexOf(id) >= 0
}

// IDs returns the ids in collection order.
func (c Collection) IDs() []int64 {
	ids := make([]int64, len(c))
	for i, s := range c {
		ids[i] = s.ID
	}
	return ids
}

// With appends s unless its id is already present.
// The bool reports whether the collection changed.
func (c Collection) With(s Snapshot) (Collection, bool) {
	if c.Contains(s.ID) {
		return c, false
	}
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	return append(out, s), true
}

// Without removes the element with id if present.
// The bool reports whether the collection changed.
func (c Collection) Without(id int64) (Collection, bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return c, false
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...), true
}

// Dedupe keeps the first occurrence of every id.
func (c Collection) Dedupe() Collection {
	seen := make(map[int64]struct{}, len(c))
	out := make(Collection, 0, len(c))
	for _, s := range c {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Encode serializes the collection as a JSON array. A nil collection encodes as [].
func (c Collection) Encode() ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	data, err := json.Marshal([]Snapshot(c))
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return data, nil
}

// DecodeCollection parses a JSON array of snapshots. JSON null decodes as empty.
func DecodeCollection(data []byte) (Collection, error) {
	var items []Snapshot
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	if items == nil {
		return Collection{}, nil
	}
	return Collection(items), nil
}
