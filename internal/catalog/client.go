// Package catalog is a small client for the TMDB v3 movie API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/movie"
	"golang.org/x/sync/errgroup"
)

// Defaults for the public TMDB endpoints.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	DefaultLanguage     = "en-US"
	DefaultTimeout      = 30 * time.Second
)

// Poster sizes used by the UI.
const (
	PosterSmall = "w200"
	PosterLarge = "w500"
)

// Common errors.
var (
	ErrUnauthorized = errors.New("catalog rejected the access token")
	ErrNotFound     = errors.New("catalog resource not found")
)

// APIError is returned for any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("catalog request failed with status %d: %s", e.StatusCode, e.Message)
}

// Genre is one entry of the movie genre list.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details bundles a movie with its recommendations.
type Details struct {
	Movie           movie.Snapshot
	Recommendations []movie.Snapshot
}

// Client talks to the catalog API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	imageBaseURL string
	token        string
	language     string
	logger       *slog.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a catalog client authenticating with a bearer token.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		token:        token,
		language:     DefaultLanguage,
	}

	for _, opt := range opts {
		opt(client)
	}
	if client.logger == nil {
		client.logger = logging.New("catalog")
	}

	return client
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithImageBaseURL sets the root used by PosterURL.
func WithImageBaseURL(imageBaseURL string) Option {
	return func(c *Client) {
		c.imageBaseURL = strings.TrimRight(imageBaseURL, "/")
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLanguage sets the language sent with detail requests.
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

type pagedResponse struct {
	Page         int              `json:"page"`
	Results      []movie.Snapshot `json:"results"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
}

type genresResponse struct {
	Genres []Genre `json:"genres"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// SearchMovies finds movies by keyword. A blank query returns no results without a request.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]movie.Snapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []movie.Snapshot{}, nil
	}

	var resp pagedResponse
	if err := c.get(ctx, "/search/movie", url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return results(resp), nil
}

// Genres returns the movie genre list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var resp genresResponse
	if err := c.get(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	if resp.Genres == nil {
		return []Genre{}, nil
	}
	return resp.Genres, nil
}

// DiscoverByGenre lists movies tagged with genreID.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int64) ([]movie.Snapshot, error) {
	q := url.Values{"with_genres": {strconv.FormatInt(genreID, 10)}}

	var resp pagedResponse
	if err := c.get(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, fmt.Errorf("discover genre %d: %w", genreID, err)
	}
	return results(resp), nil
}

// Movie fetches the full detail record for id.
func (c *Client) Movie(ctx context.Context, id int64) (movie.Snapshot, error) {
	var snap movie.Snapshot
	path := "/movie/" + strconv.FormatInt(id, 10)
	if err := c.get(ctx, path, url.Values{"language": {c.language}}, &snap); err != nil {
		return movie.Snapshot{}, fmt.Errorf("movie %d: %w", id, err)
	}
	return snap, nil
}

// Recommendations returns the first page of recommendations for id.
func (c *Client) Recommendations(ctx context.Context, id int64) ([]movie.Snapshot, error) {
	q := url.Values{"language": {c.language}, "page": {"1"}}
	path := "/movie/" + strconv.FormatInt(id, 10) + "/recommendations"

	var resp pagedResponse
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, fmt.Errorf("recommendations for %d: %w", id, err)
	}
	return results(resp), nil
}

// MovieWithRecommendations fetches the detail record and recommendations concurrently.
// A failed recommendations call is logged and yields an empty list.
func (c *Client) MovieWithRecommendations(ctx context.Context, id int64) (Details, error) {
	var details Details
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap, err := c.Movie(gctx, id)
		if err != nil {
			return err
		}
		details.Movie = snap
		return nil
	})

	g.Go(func() error {
		recs, err := c.Recommendations(gctx, id)
		if err != nil {
			c.logger.Warn("recommendations unavailable", "id", id, "error", err)
			recs = []movie.Snapshot{}
		}
		details.Recommendations = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return Details{}, err
	}
	return details, nil
}

// PosterURL builds the image URL for a poster path. It returns "" for an empty path.
func (c *Client) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = PosterSmall
	}
	return c.imageBaseURL + "/" + size + path
}

// MovieURL returns the public web page of a movie.
func MovieURL(id int64) string {
	return "https://www.themoviedb.org/movie/" + strconv.FormatInt(id, 10)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("catalog request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &APIError{StatusCode: status, Message: apiErr.StatusMessage}
	}
}

func results(resp pagedResponse) []movie.Snapshot {
	if resp.Results == nil {
		return []movie.Snapshot{}
	}
	return resp.Results
}
