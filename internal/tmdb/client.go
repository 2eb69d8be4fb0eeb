package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Details holds the movie fields the pipeline backfills from TMDB, with
// list-valued fields already trimmed down to display names.
type Details struct {
	ID                  int64
	Title               string
	ReleaseDate         string
	Budget              int64
	Revenue             int64
	Genres              []string
	ProductionCompanies []string
	ProductionCountries []string
	SpokenLanguages     []string
}

// IsEmpty reports whether the fetch produced nothing usable.
func (d *Details) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.Title == "" && d.ReleaseDate == "" && d.Budget == 0 && d.Revenue == 0 &&
		len(d.Genres) == 0 && len(d.ProductionCompanies) == 0 &&
		len(d.ProductionCountries) == 0 && len(d.SpokenLanguages) == 0
}

// Fetcher defines the metadata lookup the enrichment stage depends on.
// Implementations return (nil, nil) for identifiers TMDB does not know.
type Fetcher interface {
	MovieDetails(ctx context.Context, movieID int64) (*Details, error)
}

// Client provides access to the TMDB API for movie detail lookups.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	maxRetries int
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxRetries bounds retry attempts for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		maxRetries: 3,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

const retryBackoffBase = 500 * time.Millisecond

// MovieDetails fetches movie details by TMDB ID. Unknown identifiers return
// (nil, nil); transient failures and rate limits retry with exponential
// backoff up to the configured attempt bound.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Details, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	endpoint, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.baseURL, movieID))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBackoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		details, retryable, err := c.fetchOnce(ctx, endpoint.String())
		if err == nil {
			return details, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("tmdb movie %d: all %d attempts failed: %w", movieID, c.maxRetries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (details *Details, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Unknown identifier is an empty result, not an error.
		return nil, false, nil
	case http.StatusUnauthorized:
		return nil, false, errors.New("tmdb authentication failed, check api key")
	case http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("tmdb rate limit exceeded (latency=%v)", latency)
	default:
		retry := resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("tmdb movie details returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload detailsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode movie details: %w", err)
	}
	return payload.trim(), false, nil
}

type namedEntity struct {
	Name string `json:"name"`
}

type languageEntity struct {
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type detailsPayload struct {
	ID                  int64            `json:"id"`
	Title               string           `json:"title"`
	ReleaseDate         string           `json:"release_date"`
	Budget              int64            `json:"budget"`
	Revenue             int64            `json:"revenue"`
	Genres              []namedEntity    `json:"genres"`
	ProductionCompanies []namedEntity    `json:"production_companies"`
	ProductionCountries []namedEntity    `json:"production_countries"`
	SpokenLanguages     []languageEntity `json:"spoken_languages"`
}

// trim reduces the raw payload to the fields the pipeline consumes, keeping
// only display names for list-valued fields.
func (p *detailsPayload) trim() *Details {
	d := &Details{
		ID:          p.ID,
		Title:       strings.TrimSpace(p.Title),
		ReleaseDate: strings.TrimSpace(p.ReleaseDate),
		Budget:      p.Budget,
		Revenue:     p.Revenue,
	}
	d.Genres = names(p.Genres)
	d.ProductionCompanies = names(p.ProductionCompanies)
	d.ProductionCountries = names(p.ProductionCountries)
	for _, lang := range p.SpokenLanguages {
		name := strings.TrimSpace(lang.EnglishName)
		if name == "" {
			name = strings.TrimSpace(lang.Name)
		}
		if name != "" {
			d.SpokenLanguages = append(d.SpokenLanguages, name)
		}
	}
	return d
}

func names(entities []namedEntity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if name := strings.TrimSpace(e.Name); name != "" {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
