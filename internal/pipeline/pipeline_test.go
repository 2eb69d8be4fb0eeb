package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gofrs/flock"

	"cinesift/internal/config"
	"cinesift/internal/logging"
	"cinesift/internal/tmdb"
)

const mainCSV = `id,title,release_date,genres,budget,revenue
603,The Matrix,31/3/1999,"[{'name': 'Action'}, {'name': 'Science Fiction'}]",63000000,463517383
604,The Matrix Reloaded,,,0,0
12/25/2023,Junk Row,,,0,0
`

const extendedCSV = `id,release_date,production_countries,spoken_languages
603,,"[{'iso_3166_1': 'US'}]","[{'iso_639_1': 'en'}]"
604,2003-05-15,,
`

const ratingsJSON = `[
  {"movie_id": 603, "ratings_summary": {"avg_rating": 8.7, "total_ratings": 1500, "std_dev": 1.2, "last_rated": 872035200}}
]`

func writeSources(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.csv":     mainCSV,
		"extended.csv": extendedCSV,
		"ratings.json": ratingsJSON,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Sources.MainCSV = filepath.Join(dir, "main.csv")
	cfg.Sources.ExtendedCSV = filepath.Join(dir, "extended.csv")
	cfg.Sources.RatingsJSON = filepath.Join(dir, "ratings.json")
	cfg.Sources.OutputCSV = filepath.Join(dir, "out", "cleaned.csv")
	cfg.Enrich.Enabled = false
	return &cfg
}

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return records
}

func TestRunEndToEnd(t *testing.T) {
	cfg := writeSources(t)
	p := New(cfg, logging.NewNop())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.OutputRows != 2 {
		t.Errorf("OutputRows = %d, want 2", summary.OutputRows)
	}
	if summary.Merge.InvalidIDs != 1 {
		t.Errorf("InvalidIDs = %d, want 1 (date-shaped id)", summary.Merge.InvalidIDs)
	}
	if summary.EnrichEnabled {
		t.Error("enrichment should be off")
	}

	records := readOutput(t, cfg.Sources.OutputCSV)
	if len(records) != 3 {
		t.Fatalf("output has %d lines, want header + 2 rows", len(records))
	}

	wantHeader := []string{
		"id", "title", "release_date", "genres",
		"production_companies", "production_countries", "spoken_languages",
		"budget", "revenue", "avg_rating", "total_ratings", "std_dev", "last_rated",
	}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	wantRated := []string{
		"603", "The Matrix", "1999-03-31",
		"Action | Science Fiction", "", "United States", "English",
		"63000000", "463517383",
		"8.7", "1500", "1.2", "1997-08-20 00:00:00",
	}
	if !reflect.DeepEqual(records[1], wantRated) {
		t.Errorf("rated row = %v, want %v", records[1], wantRated)
	}

	wantUnrated := []string{
		"604", "The Matrix Reloaded", "2003-05-15",
		"", "", "", "",
		"0", "0",
		"0", "0", "0", "",
	}
	if !reflect.DeepEqual(records[2], wantUnrated) {
		t.Errorf("unrated row = %v, want %v", records[2], wantUnrated)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := writeSources(t)
	p := New(cfg, logging.NewNop())
	ctx := context.Background()

	if _, err := p.Run(ctx); err != nil {
		t.Fatal(err)
	}
	first := readOutput(t, cfg.Sources.OutputCSV)

	// Feed the cleaned output back in as the primary source.
	cfg.Sources.MainCSV = cfg.Sources.OutputCSV
	cfg.Sources.OutputCSV = filepath.Join(filepath.Dir(cfg.Sources.OutputCSV), "second.csv")
	if _, err := New(cfg, logging.NewNop()).Run(ctx); err != nil {
		t.Fatal(err)
	}
	second := readOutput(t, cfg.Sources.OutputCSV)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed output:\nfirst:  %v\nsecond: %v", first, second)
	}
}

type stubFetcher struct {
	details map[int64]*tmdb.Details
	calls   int
}

func (s *stubFetcher) MovieDetails(ctx context.Context, movieID int64) (*tmdb.Details, error) {
	s.calls++
	return s.details[movieID], nil
}

func TestRunWithEnrichment(t *testing.T) {
	cfg := writeSources(t)
	cfg.Enrich.Enabled = true
	cfg.Enrich.RefreshLanguages = false

	fetcher := &stubFetcher{details: map[int64]*tmdb.Details{
		604: {
			ReleaseDate:         "1999-01-01", // must not clobber the present date
			Genres:              []string{"Action"},
			ProductionCountries: []string{"United States"},
			Budget:              150000000,
		},
	}}
	p := New(cfg, logging.NewNop(), WithFetcher(fetcher))

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Enrich.Updated != 1 {
		t.Errorf("Enrich.Updated = %d, want 1", summary.Enrich.Updated)
	}

	records := readOutput(t, cfg.Sources.OutputCSV)
	row := records[2]
	if row[0] != "604" {
		t.Fatalf("unexpected row order: %v", row)
	}
	if row[2] != "2003-05-15" {
		t.Errorf("present release date clobbered: %q", row[2])
	}
	if row[3] != "Action" {
		t.Errorf("genres not backfilled: %q", row[3])
	}
	if row[7] != "150000000" {
		t.Errorf("budget not backfilled: %q", row[7])
	}
}

func TestRunRefusesConcurrentRuns(t *testing.T) {
	cfg := writeSources(t)
	outDir := filepath.Dir(cfg.Sources.OutputCSV)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	held := flock.New(filepath.Join(outDir, ".cinesift.lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	if _, err := New(cfg, logging.NewNop()).Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run error = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunFailsOnMissingSource(t *testing.T) {
	cfg := writeSources(t)
	cfg.Sources.RatingsJSON = filepath.Join(t.TempDir(), "nowhere.json")

	if _, err := New(cfg, logging.NewNop()).Run(context.Background()); err == nil {
		t.Fatal("missing source file must abort the run")
	}
	if _, err := os.Stat(cfg.Sources.OutputCSV); !os.IsNotExist(err) {
		t.Error("aborted run must not leave an output file")
	}
}
