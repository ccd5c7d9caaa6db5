package brandpulse

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/brandpulse/internal/logging"
	"github.com/cognicore/brandpulse/pkg/brandpulse/aggregate"
	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
	"github.com/cognicore/brandpulse/pkg/brandpulse/export"
	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store/memstore"
)

type staticProvider map[string]geocode.Coord

func (p staticProvider) Lookup(_ context.Context, q string) (geocode.Coord, bool, error) {
	c, ok := p[q]
	return c, ok, nil
}

func writeTexasDataset(t *testing.T, dir string) string {
	t.Helper()
	ds := &dataset.Dataset{
		GeneratedDate: "2025-01-03",
		TotalStates:   1,
		States: []dataset.State{{
			State: "Texas",
			Cities: []dataset.City{{
				City: "Dallas",
				Stores: []dataset.Store{{
					StoreID:   "TX-DAL-001",
					StoreName: "T-Mobile Dallas Store",
					City:      "Dallas",
					State:     "Texas",
					Reviews: []dataset.Review{
						{Title: "Amazing 5G speeds!", Text: "T-Mobile's 5G is incredibly fast.", Rating: 5, Sentiment: "positive"},
						{Title: "Network keeps dropping", Text: "Constantly losing signal and calls drop frequently.", Rating: 1, Sentiment: "negative"},
					},
				}},
			}},
		}},
	}
	path := filepath.Join(dir, "reviews.json")
	if err := dataset.Save(path, ds); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	cache := memstore.New()
	p := New(Options{
		Enricher: &geocode.Enricher{
			Provider: staticProvider{"Dallas, Texas": {Lat: 32.7767, Lon: -96.797}},
			Cache:    cache,
			Logger:   logging.Discard(),
		},
		Logger: logging.Discard(),
	})

	req := Request{
		DatasetPath: writeTexasDataset(t, dir),
		SummaryPath: filepath.Join(dir, "out", "topics_summary.json"),
		ExportDir:   filepath.Join(dir, "topics"),
		Filters:     aggregate.DefaultFilters(),
	}
	res, err := p.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Stats.Reviews != 2 || res.Geocode.Resolved != 1 {
		t.Errorf("unexpected result: stats=%+v geocode=%+v", res.Stats, res.Geocode)
	}
	if _, ok, _ := cache.GetCoord(context.Background(), "Dallas, Texas"); !ok {
		t.Error("geocode result not cached in store")
	}

	s, err := aggregate.ReadSummary(req.SummaryPath)
	if err != nil {
		t.Fatalf("ReadSummary: %v", err)
	}
	if s.TopicCountsOverall["coverage"] != 2 {
		t.Errorf("coverage = %d, want 2", s.TopicCountsOverall["coverage"])
	}
	if _, ok := s.CityCoords["Texas::Dallas"]; !ok {
		t.Errorf("city coords missing: %+v", s.CityCoords)
	}

	var coverage export.TopicFile
	if err := artifact.ReadJSON(filepath.Join(req.ExportDir, "coverage_reviews.json"), &coverage); err != nil {
		t.Fatal(err)
	}
	if coverage.Count != 2 {
		t.Errorf("coverage file count = %d, want 2", coverage.Count)
	}
	if res.Exported != len(s.TopicCountsOverall) {
		t.Errorf("exported %d files for %d topics", res.Exported, len(s.TopicCountsOverall))
	}
}

func TestPipelineMissingDataset(t *testing.T) {
	p := New(Options{Logger: logging.Discard()})
	_, err := p.Run(context.Background(), Request{DatasetPath: filepath.Join(t.TempDir(), "none.json")})
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportSummary(t *testing.T) {
	dir := t.TempDir()
	p := New(Options{Logger: logging.Discard()})
	summaryPath := filepath.Join(dir, "topics_summary.json")
	if _, err := p.Run(context.Background(), Request{
		DatasetPath: writeTexasDataset(t, dir),
		SummaryPath: summaryPath,
		Filters:     aggregate.DefaultFilters(),
	}); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "exported")
	n, err := ExportSummary(summaryPath, outDir)
	if err != nil {
		t.Fatalf("ExportSummary: %v", err)
	}
	if n == 0 {
		t.Fatal("no files exported")
	}
	if _, err := os.Stat(filepath.Join(outDir, "speed_reviews.json")); err != nil {
		t.Errorf("speed file missing: %v", err)
	}

	if err := os.WriteFile(summaryPath, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExportSummary(summaryPath, outDir); !errors.Is(err, internalerr.ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestClassifyText(t *testing.T) {
	p := New(Options{})
	got := p.ClassifyText("The bill was wrong and the staff were rude")
	if len(got) == 0 {
		t.Fatal("classification must never be empty")
	}
	if other := p.ClassifyText("lorem ipsum"); len(other) != 1 || other[0] != "other" {
		t.Errorf("unmatched text = %v", other)
	}
}
