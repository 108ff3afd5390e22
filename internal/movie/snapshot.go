// Package movie holds the catalog records the app keeps locally.
package movie

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Known JSON field names. Everything else rides along in Snapshot.Extra.
const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldPosterPath  = "poster_path"
	fieldVoteAverage = "vote_average"
)

// Snapshot is a denormalized copy of the catalog fields for one movie.
// It is stored independently of the live catalog.
type Snapshot struct {
	ID          int64
	Title       string
	PosterPath  *string
	VoteAverage float64

	// Extra holds the remaining catalog fields, untouched.
	Extra map[string]json.RawMessage
}

// NewSnapshot creates a snapshot with the identity and display fields set.
func NewSnapshot(id int64, title string, voteAverage float64) Snapshot {
	return Snapshot{ID: id, Title: title, VoteAverage: voteAverage}
}

// WithPosterPath returns a copy with the poster path set.
func (s Snapshot) WithPosterPath(path string) Snapshot {
	s.PosterPath = &path
	return s
}

// Poster returns the poster path or "" when the catalog has none.
func (s Snapshot) Poster() string {
	if s.PosterPath == nil {
		return ""
	}
	return *s.PosterPath
}

// Rating formats the vote average with one decimal.
func (s Snapshot) Rating() string {
	return strconv.FormatFloat(s.VoteAverage, 'f', 1, 64)
}

// String reads an extra string field such as "overview" or "release_date".
func (s Snapshot) String(field string) string {
	raw, ok := s.Extra[field]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// Int reads an extra integer field such as "runtime".
func (s Snapshot) Int(field string) int64 {
	raw, ok := s.Extra[field]
	if !ok {
		return 0
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

// GenreNames reads the detail endpoint's "genres" array.
func (s Snapshot) GenreNames() []string {
	raw, ok := s.Extra["genres"]
	if !ok {
		return nil
	}
	var genres []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &genres); err != nil {
		return nil
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// MarshalJSON writes the known fields plus every extra field.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		out[k] = v
	}
	out[fieldID] = s.ID
	out[fieldTitle] = s.Title
	out[fieldPosterPath] = s.PosterPath
	out[fieldVoteAverage] = s.VoteAverage
	return json.Marshal(out)
}

// UnmarshalJSON reads the known fields and keeps the rest in Extra.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("movie snapshot must be an object")
	}

	var snap Snapshot
	if raw, ok := fields[fieldID]; ok {
		if err := json.Unmarshal(raw, &snap.ID); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldID, err)
		}
		delete(fields, fieldID)
	}
	if raw, ok := fields[fieldTitle]; ok {
		if err := json.Unmarshal(raw, &snap.Title); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldTitle, err)
		}
		delete(fields, fieldTitle)
	}
	if raw, ok := fields[fieldPosterPath]; ok {
		if err := json.Unmarshal(raw, &snap.PosterPath); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldPosterPath, err)
		}
		delete(fields, fieldPosterPath)
	}
	if raw, ok := fields[fieldVoteAverage]; ok {
		if err := json.Unmarshal(raw, &snap.VoteAverage); err != nil {
			return fmt.Errorf("invalid %s: %w", fieldVoteAverage, err)
		}
		delete(fields, fieldVoteAverage)
	}
	if len(fields) > 0 {
		snap.Extra = fields
	}

	*s = snap
	return nil
}
