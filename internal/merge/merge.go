// Package merge reconciles the two movie tables and the ratings table into
// one record set keyed by canonical identifier.
//
// The primary table takes precedence; the secondary table only fills values
// the primary left empty. Ratings join on the same reconciled key so movies
// without ratings survive with rating columns absent, and ratings without a
// movie row still produce a record. Rows whose identifier fails
// reconciliation never enter the join.
package merge

import (
	"log/slog"
	"strings"

	"cinesift/internal/dataset"
	"cinesift/internal/ident"
	"cinesift/internal/logging"
	"cinesift/internal/normalize"
)

// IDColumn is the canonical identifier column of the merged table.
const IDColumn = "id"

// ratingsIDColumn is the foreign key carried by the ratings source.
const ratingsIDColumn = "movie_id"

// Stats reports what the merge dropped and collapsed.
type Stats struct {
	PrimaryRows       int
	SecondaryRows     int
	RatingsRows       int
	InvalidIDs        int
	DuplicateIDs      int
	MergedRows        int
	RatingsOnlyRows   int
	SecondaryOnlyRows int
}

// Merge combines the three sources into a single table. The identifier
// column of every output row holds a reconciled positive int64.
func Merge(primary, secondary, ratings *dataset.Table, logger *slog.Logger) (*dataset.Table, Stats) {
	log := logging.WithComponent(logger, "merge")
	stats := Stats{}
	if primary != nil {
		stats.PrimaryRows = len(primary.Rows)
	}
	if secondary != nil {
		stats.SecondaryRows = len(secondary.Rows)
	}
	if ratings != nil {
		stats.RatingsRows = len(ratings.Rows)
	}

	out := &dataset.Table{Columns: []string{IDColumn}}
	byID := make(map[int64]dataset.Row)
	var order []int64

	keep := func(id int64, row dataset.Row) dataset.Row {
		existing, ok := byID[id]
		if !ok {
			merged := row.Clone()
			merged[IDColumn] = id
			byID[id] = merged
			order = append(order, id)
			return merged
		}
		return existing
	}

	// Primary table first; duplicate ids collapse first-seen-wins.
	if primary != nil {
		mergeColumns(out, primary.Columns)
		for _, row := range primary.Rows {
			id, err := ident.Reconcile(row[IDColumn])
			if err != nil {
				stats.InvalidIDs++
				log.Debug("dropping primary row with invalid id", "value", normalize.AsString(row[IDColumn]))
				continue
			}
			if _, seen := byID[id]; seen {
				stats.DuplicateIDs++
				continue
			}
			keep(id, row)
		}
	}

	// Secondary fills gaps and contributes movies the primary lacks.
	if secondary != nil {
		mergeColumns(out, secondary.Columns)
		for _, row := range secondary.Rows {
			id, err := ident.Reconcile(row[IDColumn])
			if err != nil {
				stats.InvalidIDs++
				log.Debug("dropping secondary row with invalid id", "value", normalize.AsString(row[IDColumn]))
				continue
			}
			existing, known := byID[id]
			if !known {
				keep(id, row)
				stats.SecondaryOnlyRows++
				continue
			}
			fillNulls(existing, row)
		}
	}

	// Ratings join on movie_id; unmatched ratings become their own records.
	if ratings != nil {
		for _, column := range ratings.Columns {
			if column != ratingsIDColumn {
				out.AddColumn(column)
			}
		}
		for _, row := range ratings.Rows {
			id, err := ident.Reconcile(row[ratingsIDColumn])
			if err != nil {
				stats.InvalidIDs++
				log.Debug("dropping rating with invalid movie id", "value", normalize.AsString(row[ratingsIDColumn]))
				continue
			}
			target, known := byID[id]
			if !known {
				target = keep(id, dataset.Row{})
				stats.RatingsOnlyRows++
			}
			for column, value := range row {
				if column == ratingsIDColumn {
					continue
				}
				if isNull(target[column]) {
					target[column] = value
				}
			}
		}
	}

	for _, id := range order {
		out.Rows = append(out.Rows, byID[id])
	}
	stats.MergedRows = len(out.Rows)

	log.Info("merged sources",
		"primary", stats.PrimaryRows,
		"secondary", stats.SecondaryRows,
		"ratings", stats.RatingsRows,
		"merged", stats.MergedRows,
		"invalid_ids", stats.InvalidIDs,
		"duplicates", stats.DuplicateIDs)
	return out, stats
}

func mergeColumns(out *dataset.Table, columns []string) {
	for _, column := range columns {
		out.AddColumn(column)
	}
}

// fillNulls copies values from donor into row for columns the row holds no
// usable value for. The row's existing data always wins.
func fillNulls(row, donor dataset.Row) {
	for column, value := range donor {
		if column == IDColumn {
			continue
		}
		if isNull(row[column]) && !isNull(value) {
			row[column] = value
		}
	}
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
