// Package pipeline drives one reconciliation run end to end: load the three
// sources, merge them, optionally backfill gaps from TMDB, normalize every
// record, and write the flattened CSV.
//
// A run is all-or-nothing at the file level: a source that cannot be read or
// an output that cannot be written aborts the run. Individual records are
// never fatal; a record that fails validation is counted, logged, and
// dropped while the rest of the dataset proceeds.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cinesift/internal/config"
	"cinesift/internal/dataset"
	"cinesift/internal/enrich"
	"cinesift/internal/isomap"
	"cinesift/internal/logging"
	"cinesift/internal/merge"
	"cinesift/internal/movie"
	"cinesift/internal/normalize"
	"cinesift/internal/tmdb"
	"cinesift/internal/tmdbcache"
)

// ErrAlreadyRunning reports that another run holds the lock for the same
// output location.
var ErrAlreadyRunning = fmt.Errorf("another run is already in progress")

// Summary reports what one run did.
type Summary struct {
	RunID         string
	Merge         merge.Stats
	EnrichEnabled bool
	Enrich        enrich.Stats
	OutputRows    int
	DroppedRows   int
	OutputPath    string
	Duration      time.Duration
}

// Pipeline executes reconciliation runs for one configuration.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher tmdb.Fetcher
	mapper  *isomap.Mapper
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFetcher substitutes the metadata fetcher. Used by tests and by callers
// that construct their own TMDB transport.
func WithFetcher(f tmdb.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithResolver substitutes the ISO code resolver behind country and language
// mapping.
func WithResolver(r isomap.Resolver) Option {
	return func(p *Pipeline) { p.mapper = isomap.NewMapper(r) }
}

// New creates a pipeline bound to the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		mapper: isomap.NewMapper(isomap.DefaultResolver()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full reconciliation pass. Concurrent runs against the
// same output location are refused via a file lock.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := logging.WithComponent(p.logger, "pipeline").With("run_id", runID)
	start := time.Now()

	release, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer release()

	log.Info("run started",
		"main", p.cfg.Sources.MainCSV,
		"extended", p.cfg.Sources.ExtendedCSV,
		"ratings", p.cfg.Sources.RatingsJSON,
		"enrich", p.cfg.Enrich.Enabled)

	primary, err := dataset.ReadCSV(p.cfg.Sources.MainCSV)
	if err != nil {
		return nil, fmt.Errorf("load main source: %w", err)
	}
	secondary, err := dataset.ReadCSV(p.cfg.Sources.ExtendedCSV)
	if err != nil {
		return nil, fmt.Errorf("load extended source: %w", err)
	}
	ratings, err := dataset.ReadRatings(p.cfg.Sources.RatingsJSON)
	if err != nil {
		return nil, fmt.Errorf("load ratings source: %w", err)
	}

	merged, mergeStats := merge.Merge(primary, secondary, ratings, log)

	summary := &Summary{
		RunID:         runID,
		Merge:         mergeStats,
		EnrichEnabled: p.cfg.Enrich.Enabled,
		OutputPath:    p.cfg.Sources.OutputCSV,
	}

	if p.cfg.Enrich.Enabled {
		fetcher, cleanup, err := p.buildFetcher(log)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		summary.Enrich = enrich.Enrich(ctx, merged, fetcher, enrich.Options{
			BatchSize:        p.cfg.Enrich.BatchSize,
			RefreshLanguages: p.cfg.Enrich.RefreshLanguages,
		}, log)
	} else {
		log.Info("enrichment disabled, records keep source values")
	}

	header, records, dropped := p.clean(merged, log)
	summary.OutputRows = len(records)
	summary.DroppedRows = dropped

	if err := dataset.WriteCSV(p.cfg.Sources.OutputCSV, header, records); err != nil {
		return nil, fmt.Errorf("save output: %w", err)
	}

	summary.Duration = time.Since(start)
	log.Info("run finished",
		"rows", summary.OutputRows,
		"dropped", summary.DroppedRows,
		"output", summary.OutputPath,
		"elapsed", summary.Duration.Round(time.Millisecond).String())
	return summary, nil
}

// acquireLock takes a non-blocking file lock next to the output so two runs
// cannot race on the same destination.
func (p *Pipeline) acquireLock() (func(), error) {
	dir := filepath.Dir(p.cfg.Sources.OutputCSV)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, ".cinesift.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return func() { _ = lock.Unlock() }, nil
}

// buildFetcher assembles the TMDB transport, layering the SQLite cache over
// it when a cache path is configured. A cache that fails to open degrades to
// uncached fetching.
func (p *Pipeline) buildFetcher(log *slog.Logger) (tmdb.Fetcher, func(), error) {
	fetcher := p.fetcher
	if fetcher == nil {
		client, err := tmdb.New(p.cfg.TMDB.APIKey, p.cfg.TMDB.BaseURL, p.cfg.TMDB.Language,
			tmdb.WithTimeout(time.Duration(p.cfg.TMDB.RequestTimeout)*time.Second),
			tmdb.WithMaxRetries(p.cfg.TMDB.MaxRetries))
		if err != nil {
			return nil, nil, fmt.Errorf("build tmdb client: %w", err)
		}
		fetcher = client
	}

	cache, err := tmdbcache.Open(p.cfg.TMDB.CachePath, log)
	if err != nil {
		log.Warn("fetch cache unavailable, continuing without", logging.Error(err))
		return fetcher, func() {}, nil
	}
	return tmdbcache.WrapFetcher(fetcher, cache, log), func() { _ = cache.Close() }, nil
}

// clean normalizes every merged row into its canonical record and renders
// the output. Extra source columns survive after the fixed columns; rows
// whose identifier fails reconciliation are dropped and counted.
func (p *Pipeline) clean(merged *dataset.Table, log *slog.Logger) (header []string, records [][]string, dropped int) {
	extras := extraColumns(merged)
	header = append(append([]string{}, movie.FixedColumns...), extras...)

	for _, row := range merged.Rows {
		m, err := movie.FromRow(row, p.mapper)
		if err != nil {
			dropped++
			log.Warn("record dropped",
				"value", normalize.AsString(row[merge.IDColumn]),
				logging.Error(err))
			continue
		}
		record := m.Strings()
		for _, column := range extras {
			record = append(record, normalize.AsString(row[column]))
		}
		records = append(records, record)
	}
	return header, records, dropped
}

// extraColumns lists merged columns that are not part of the fixed output
// set, in source order.
func extraColumns(merged *dataset.Table) []string {
	fixed := make(map[string]struct{}, len(movie.FixedColumns))
	for _, column := range movie.FixedColumns {
		fixed[column] = struct{}{}
	}
	var extras []string
	for _, column := range merged.Columns {
		if _, ok := fixed[column]; !ok {
			extras = append(extras, column)
		}
	}
	return extras
}
