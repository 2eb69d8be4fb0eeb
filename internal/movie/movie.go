// Package movie defines the canonical reconciled record and builds it from
// a merged row by running every field normalizer.
//
// Construction is the validation boundary: a row whose identifier fails
// reconciliation is rejected outright, while any single field that cannot
// be normalized falls back to its type's default instead of sinking the
// record.
package movie

import (
	"strconv"

	"cinesift/internal/dataset"
	"cinesift/internal/ident"
	"cinesift/internal/isomap"
	"cinesift/internal/normalize"
)

// FixedColumns is the stable output column order. Extra source columns are
// appended after these.
var FixedColumns = []string{
	"id", "title", "release_date", "genres",
	"production_companies", "production_countries", "spoken_languages",
	"budget", "revenue", "avg_rating", "total_ratings", "std_dev", "last_rated",
}

// ListSeparator joins list-valued fields in the flat output.
const ListSeparator = " | "

// RatingSummary aggregates a movie's rating data.
type RatingSummary struct {
	AvgRating    float64
	TotalRatings int64
	StdDev       float64
	LastRated    string // formatted timestamp, "" when absent
}

// Movie is the canonical reconciled record: exactly one per valid id.
type Movie struct {
	ID                  int64
	Title               string
	ReleaseDate         string // YYYY-MM-DD, "" when absent
	Genres              []string
	ProductionCompanies []string
	ProductionCountries []string
	SpokenLanguages     []string
	Budget              int64
	Revenue             int64
	Rating              RatingSummary
	HasRating           bool
}

// ratingColumns mark a row as carrying rating data when any is present.
var ratingColumns = []string{"avg_rating", "total_ratings", "std_dev", "last_rated"}

// FromRow builds a canonical movie from a merged row. The identifier must
// reconcile; every other field degrades to its default on bad input.
func FromRow(row dataset.Row, mapper *isomap.Mapper) (*Movie, error) {
	id, err := ident.Reconcile(row["id"])
	if err != nil {
		return nil, err
	}

	m := &Movie{
		ID:                  id,
		Title:               normalize.Text(row["title"]),
		Genres:              normalize.NameList(row["genres"]),
		ProductionCompanies: normalize.NameList(row["production_companies"]),
		ProductionCountries: mapper.MapCountries(row["production_countries"]),
		SpokenLanguages:     mapper.MapLanguages(row["spoken_languages"]),
		Budget:              normalize.Financial(row["budget"]),
		Revenue:             normalize.Financial(row["revenue"]),
	}
	if date, ok := normalize.Date(row["release_date"]); ok {
		m.ReleaseDate = date
	}

	for _, column := range ratingColumns {
		if row.Has(column) {
			m.HasRating = true
			break
		}
	}
	if m.HasRating {
		m.Rating.TotalRatings = normalize.Count(row["total_ratings"])
		m.Rating.AvgRating = normalize.Rating(row["avg_rating"])
		m.Rating.StdDev = normalize.StdDev(row["std_dev"], m.Rating.TotalRatings)
		if ts, ok := normalize.Timestamp(row["last_rated"]); ok {
			m.Rating.LastRated = ts
		}
	}
	return m, nil
}

// Strings renders the record's fixed columns in output order, with
// list-valued fields joined by ListSeparator.
func (m *Movie) Strings() []string {
	return []string{
		strconv.FormatInt(m.ID, 10),
		m.Title,
		m.ReleaseDate,
		joinList(m.Genres),
		joinList(m.ProductionCompanies),
		joinList(m.ProductionCountries),
		joinList(m.SpokenLanguages),
		strconv.FormatInt(m.Budget, 10),
		strconv.FormatInt(m.Revenue, 10),
		strconv.FormatFloat(m.Rating.AvgRating, 'f', -1, 64),
		strconv.FormatInt(m.Rating.TotalRatings, 10),
		strconv.FormatFloat(m.Rating.StdDev, 'f', -1, 64),
		m.Rating.LastRated,
	}
}

func joinList(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ListSeparator
		}
		out += v
	}
	return out
}
