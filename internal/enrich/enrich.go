// Package enrich backfills missing movie fields from the external metadata
// collaborator.
//
// A uniform missing-value predicate decides what counts as a gap; fetched
// values only ever land in fields that are still missing, so data already
// present in the sources is never clobbered. The one exception is
// spoken_languages, which the RefreshLanguages policy refetches and
// overwrites unconditionally to match the system this pipeline replaces.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"cinesift/internal/dataset"
	"cinesift/internal/ident"
	"cinesift/internal/logging"
	"cinesift/internal/tmdb"
)

// Target columns backfilled when missing.
var targetColumns = []string{
	"title",
	"release_date",
	"genres",
	"production_companies",
	"production_countries",
	"budget",
	"revenue",
}

const languagesColumn = "spoken_languages"

// Options tunes the enrichment pass.
type Options struct {
	// BatchSize controls progress logging cadence only; it never changes
	// output.
	BatchSize int
	// RefreshLanguages refetches spoken_languages even when present.
	RefreshLanguages bool
}

// Stats summarizes one enrichment pass.
type Stats struct {
	Scanned    int
	Fetches    int
	Updated    int
	Failures   int
	InvalidIDs int
}

// emptyLookingStrings are the string forms treated as missing values.
var emptyLookingStrings = map[string]struct{}{
	"": {}, "0": {}, "null": {}, "NULL": {}, "nan": {}, "NaN": {},
	"[]": {}, "[ ]": {}, "{}": {},
}

// Missing reports whether a value counts as missing under the fill policy:
// nil, numeric zero, empty-looking strings, or an empty list.
func Missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case string:
		_, ok := emptyLookingStrings[strings.TrimSpace(t)]
		return ok
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Enrich walks the merged table in input order and backfills gaps from the
// fetcher. A single record's fetch failure is logged and skipped; it never
// aborts the batch. Records are processed in fixed-size batches purely for
// progress observability.
func Enrich(ctx context.Context, table *dataset.Table, fetcher tmdb.Fetcher, opts Options, logger *slog.Logger) Stats {
	log := logging.WithComponent(logger, "enrich")
	stats := Stats{Scanned: len(table.Rows)}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	for i, row := range table.Rows {
		if enrichRow(ctx, row, fetcher, opts, log, &stats) {
			ensureColumns(table)
		}
		if (i+1)%opts.BatchSize == 0 || i == len(table.Rows)-1 {
			log.Info("enrichment progress",
				"processed", i+1,
				"total", len(table.Rows),
				"updated", stats.Updated,
				"api_calls", stats.Fetches)
		}
	}

	log.Info("enrichment finished",
		"updated", stats.Updated,
		"api_calls", stats.Fetches,
		"failures", stats.Failures,
		"invalid_ids", stats.InvalidIDs)
	return stats
}

func enrichRow(ctx context.Context, row dataset.Row, fetcher tmdb.Fetcher, opts Options, log *slog.Logger, stats *Stats) bool {
	id, err := ident.Reconcile(row["id"])
	if err != nil {
		stats.InvalidIDs++
		return false
	}

	if !needsFetch(row, opts.RefreshLanguages) {
		return false
	}

	stats.Fetches++
	details, err := fetcher.MovieDetails(ctx, id)
	if err != nil {
		stats.Failures++
		log.Warn("fetch failed, record left unchanged", "movie_id", id, logging.Error(err))
		return false
	}
	if details.IsEmpty() {
		return false
	}

	if applyDetails(row, details, opts.RefreshLanguages) {
		stats.Updated++
		return true
	}
	return false
}

func needsFetch(row dataset.Row, refreshLanguages bool) bool {
	if refreshLanguages {
		return true
	}
	for _, column := range targetColumns {
		if Missing(row[column]) {
			return true
		}
	}
	return Missing(row[languagesColumn])
}

// applyDetails fills still-missing target fields from the fetched payload
// and reports whether anything changed. Present data is never overwritten
// except spoken_languages under the refresh policy.
func applyDetails(row dataset.Row, details *tmdb.Details, refreshLanguages bool) bool {
	changed := false
	set := func(column string, value any) {
		if Missing(row[column]) && !Missing(value) {
			row[column] = value
			changed = true
		}
	}

	set("title", details.Title)
	set("release_date", details.ReleaseDate)
	set("budget", details.Budget)
	set("revenue", details.Revenue)
	set("genres", details.Genres)
	set("production_companies", details.ProductionCompanies)
	set("production_countries", details.ProductionCountries)

	if refreshLanguages && len(details.SpokenLanguages) > 0 {
		row[languagesColumn] = details.SpokenLanguages
		changed = true
	} else {
		set(languagesColumn, details.SpokenLanguages)
	}
	return changed
}

// ensureColumns keeps the table's column universe in sync with fields the
// enricher may have introduced.
func ensureColumns(table *dataset.Table) {
	for _, column := range targetColumns {
		table.AddColumn(column)
	}
	table.AddColumn(languagesColumn)
}
