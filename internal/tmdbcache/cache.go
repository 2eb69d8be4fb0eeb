// Package tmdbcache persists fetched TMDB payloads in SQLite so repeated
// pipeline runs over the same dataset avoid refetching.
//
// The cache is optional: with no path configured every operation is a no-op
// and the enrichment stage talks straight to the API. Caching is purely
// transport-side and never changes what enrichment writes into a record.
package tmdbcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cinesift/internal/logging"
	"cinesift/internal/tmdb"
)

// Cache stores trimmed TMDB movie payloads keyed by movie ID.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the cache database. An empty path returns
// a non-functional cache whose operations are all no-ops.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	cache := &Cache{path: path, logger: logging.WithComponent(logger, "tmdbcache")}
	if path == "" {
		return cache, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS movie_details (
        movie_id   INTEGER PRIMARY KEY,
        payload    TEXT NOT NULL,
        fetched_at TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	cache.db = db
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Enabled reports whether the cache is backed by storage.
func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Lookup returns the cached payload for a movie ID if present.
func (c *Cache) Lookup(ctx context.Context, movieID int64) (*tmdb.Details, bool) {
	if !c.Enabled() {
		return nil, false
	}

	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM movie_details WHERE movie_id = ?`, movieID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache lookup failed", "movie_id", movieID, logging.Error(err))
		return nil, false
	}

	var details tmdb.Details
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		c.logger.Warn("cache payload corrupt", "movie_id", movieID, logging.Error(err))
		return nil, false
	}
	return &details, true
}

// Store saves a fetched payload. Empty results are not cached so transient
// upstream gaps can heal on a later run.
func (c *Cache) Store(ctx context.Context, movieID int64, details *tmdb.Details) error {
	if !c.Enabled() || details.IsEmpty() {
		return nil
	}

	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal cache payload: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO movie_details (movie_id, payload, fetched_at)
         VALUES (?, ?, ?)
         ON CONFLICT(movie_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		movieID, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store cache payload: %w", err)
	}
	return nil
}

// WrapFetcher layers the cache over a fetcher. Cache write failures degrade
// to a log line; the fetched payload is always returned.
func WrapFetcher(inner tmdb.Fetcher, cache *Cache, logger *slog.Logger) tmdb.Fetcher {
	if !cache.Enabled() {
		return inner
	}
	return &cachingFetcher{
		inner:  inner,
		cache:  cache,
		logger: logging.WithComponent(logger, "tmdbcache"),
	}
}

type cachingFetcher struct {
	inner  tmdb.Fetcher
	cache  *Cache
	logger *slog.Logger
}

func (f *cachingFetcher) MovieDetails(ctx context.Context, movieID int64) (*tmdb.Details, error) {
	if details, ok := f.cache.Lookup(ctx, movieID); ok {
		return details, nil
	}
	details, err := f.inner.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if err := f.cache.Store(ctx, movieID, details); err != nil {
		f.logger.Warn("caching fetched payload failed", "movie_id", movieID, logging.Error(err))
	}
	return details, nil
}
