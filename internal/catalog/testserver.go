package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/artpar/marquee/internal/movie"
)

// TestServer is a fake catalog API for tests of the client and its callers.
type TestServer struct {
	*httptest.Server

	Token           string
	Movies          map[int64]movie.Snapshot
	Genres          []Genre
	GenreMovies     map[int64][]int64
	Recommendations map[int64][]int64

	mu       sync.Mutex
	requests []string
}

// NewTestServer starts a fake catalog seeded with a few movies.
// The server is closed when the test ends.
func NewTestServer(t testing.TB) *TestServer {
	t.Helper()

	ts := &TestServer{
		Token: "test-token",
		Movies: map[int64]movie.Snapshot{
			550: movie.NewSnapshot(550, "Fight Club", 8.4).WithPosterPath("/fc.jpg"),
			603: movie.NewSnapshot(603, "The Matrix", 8.2).WithPosterPath("/matrix.jpg"),
			13:  movie.NewSnapshot(13, "Forrest Gump", 8.5),
		},
		Genres: []Genre{
			{ID: 18, Name: "Drama"},
			{ID: 878, Name: "Science Fiction"},
		},
		GenreMovies: map[int64][]int64{
			18:  {550, 13},
			878: {603},
		},
		Recommendations: map[int64][]int64{
			550: {603, 13},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", ts.handleSearch)
	mux.HandleFunc("/genre/movie/list", ts.handleGenres)
	mux.HandleFunc("/discover/movie", ts.handleDiscover)
	mux.HandleFunc("/movie/", ts.handleMovie)

	ts.Server = httptest.NewServer(ts.authorize(mux))
	t.Cleanup(ts.Close)
	return ts
}

// Client returns a catalog client pointed at the server.
func (ts *TestServer) Client(opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(ts.URL)}, opts...)
	return NewClient(ts.Token, opts...)
}

// Requests returns the request URIs seen so far.
func (ts *TestServer) Requests() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.requests))
	copy(out, ts.requests)
	return out
}

func (ts *TestServer) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.requests = append(ts.requests, r.URL.RequestURI())
		ts.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+ts.Token {
			writeJSON(w, http.StatusUnauthorized, errorResponse{StatusCode: 7, StatusMessage: "Invalid API key: You must be granted a valid key."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (ts *TestServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	var hits []movie.Snapshot
	for _, id := range ts.sortedIDs() {
		if strings.Contains(strings.ToLower(ts.Movies[id].Title), q) {
			hits = append(hits, ts.Movies[id])
		}
	}
	writeJSON(w, http.StatusOK, pagedResponse{Page: 1, Results: hits, TotalPages: 1, TotalResults: len(hits)})
}

func (ts *TestServer) handleGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, genresResponse{Genres: ts.Genres})
}

func (ts *TestServer) handleDiscover(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.URL.Query().Get("with_genres"), 10, 64)
	writeJSON(w, http.StatusOK, pagedResponse{Page: 1, Results: ts.lookup(ts.GenreMovies[id])})
}

func (ts *TestServer) handleMovie(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/movie/"), "/"), "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{StatusCode: 34, StatusMessage: "The resource you requested could not be found."})
		return
	}

	if len(parts) == 2 && parts[1] == "recommendations" {
		writeJSON(w, http.StatusOK, pagedResponse{Page: 1, Results: ts.lookup(ts.Recommendations[id])})
		return
	}

	snap, ok := ts.Movies[id]
	if !ok || len(parts) != 1 {
		writeJSON(w, http.StatusNotFound, errorResponse{StatusCode: 34, StatusMessage: "The resource you requested could not be found."})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (ts *TestServer) lookup(ids []int64) []movie.Snapshot {
	out := []movie.Snapshot{}
	for _, id := range ids {
		if s, ok := ts.Movies[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (ts *TestServer) sortedIDs() []int64 {
	ids := make([]int64, 0, len(ts.Movies))
	for id := range ts.Movies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
