package merge

import (
	"testing"

	"cinesift/internal/dataset"
	"cinesift/internal/logging"
)

func table(columns []string, rows ...dataset.Row) *dataset.Table {
	return &dataset.Table{Columns: columns, Rows: rows}
}

func TestMergePrimaryPrecedence(t *testing.T) {
	primary := table([]string{"id", "title", "budget"},
		dataset.Row{"id": "1", "title": "A", "budget": ""})
	secondary := table([]string{"id", "title", "budget"},
		dataset.Row{"id": "1", "title": "B", "budget": "100"})

	out, stats := Merge(primary, secondary, nil, logging.NewNop())
	if stats.MergedRows != 1 {
		t.Fatalf("merged rows = %d, want 1", stats.MergedRows)
	}
	row := out.Rows[0]
	if row["title"] != "A" {
		t.Errorf("title = %v, want primary value A", row["title"])
	}
	if row["budget"] != "100" {
		t.Errorf("budget = %v, want secondary fill 100", row["budget"])
	}
	if row["id"] != int64(1) {
		t.Errorf("id = %v (%T), want int64 1", row["id"], row["id"])
	}
}

func TestMergeOuterJoinKeepsBothSides(t *testing.T) {
	primary := table([]string{"id", "title"}, dataset.Row{"id": "1", "title": "Only Primary"})
	secondary := table([]string{"id", "runtime"}, dataset.Row{"id": "2", "runtime": "120"})

	out, stats := Merge(primary, secondary, nil, logging.NewNop())
	if len(out.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(out.Rows))
	}
	if stats.SecondaryOnlyRows != 1 {
		t.Errorf("secondary-only = %d, want 1", stats.SecondaryOnlyRows)
	}
	// Column universe is the union of both sources.
	for _, col := range []string{"id", "title", "runtime"} {
		if !out.HasColumn(col) {
			t.Errorf("missing column %s", col)
		}
	}
}

func TestMergeDropsInvalidIDs(t *testing.T) {
	primary := table([]string{"id", "title"},
		dataset.Row{"id": "1/2/1997", "title": "Date ID"},
		dataset.Row{"id": "poster.jpg", "title": "File ID"},
		dataset.Row{"id": "3", "title": "Valid"})

	out, stats := Merge(primary, nil, nil, logging.NewNop())
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.Rows))
	}
	if stats.InvalidIDs != 2 {
		t.Errorf("invalid ids = %d, want 2", stats.InvalidIDs)
	}
}

func TestMergeDeduplicatesFirstWins(t *testing.T) {
	primary := table([]string{"id", "title"},
		dataset.Row{"id": "5", "title": "First"},
		dataset.Row{"id": "5", "title": "Second"})

	out, stats := Merge(primary, nil, nil, logging.NewNop())
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.Rows))
	}
	if out.Rows[0]["title"] != "First" {
		t.Errorf("title = %v, want First", out.Rows[0]["title"])
	}
	if stats.DuplicateIDs != 1 {
		t.Errorf("duplicates = %d, want 1", stats.DuplicateIDs)
	}
}

func TestMergeRatingsJoin(t *testing.T) {
	primary := table([]string{"id", "title"},
		dataset.Row{"id": "1", "title": "Rated"},
		dataset.Row{"id": "2", "title": "Unrated"})
	ratings := table([]string{"movie_id", "avg_rating", "total_ratings"},
		dataset.Row{"movie_id": float64(1), "avg_rating": 7.5, "total_ratings": float64(100)},
		dataset.Row{"movie_id": float64(9), "avg_rating": 6.0, "total_ratings": float64(3)})

	out, stats := Merge(primary, nil, ratings, logging.NewNop())
	if len(out.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (two movies + one ratings-only)", len(out.Rows))
	}
	if stats.RatingsOnlyRows != 1 {
		t.Errorf("ratings-only = %d, want 1", stats.RatingsOnlyRows)
	}
	if out.Rows[0]["avg_rating"] != 7.5 {
		t.Errorf("joined avg_rating = %v", out.Rows[0]["avg_rating"])
	}
	if _, ok := out.Rows[1]["avg_rating"]; ok {
		t.Error("unrated movie should not gain rating values")
	}
	if out.Rows[2]["id"] != int64(9) {
		t.Errorf("ratings-only id = %v, want 9", out.Rows[2]["id"])
	}
	if out.HasColumn("movie_id") {
		t.Error("movie_id should be coalesced into id, not kept as a column")
	}
}

func TestMergeDeterministicOrder(t *testing.T) {
	primary := table([]string{"id"},
		dataset.Row{"id": "3"}, dataset.Row{"id": "1"}, dataset.Row{"id": "2"})

	out, _ := Merge(primary, nil, nil, logging.NewNop())
	want := []int64{3, 1, 2}
	for i, row := range out.Rows {
		if row["id"] != want[i] {
			t.Errorf("row %d id = %v, want %d (input order preserved)", i, row["id"], want[i])
		}
	}
}
