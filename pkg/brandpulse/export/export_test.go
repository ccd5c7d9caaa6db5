package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/brandpulse/pkg/brandpulse/aggregate"
	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
)

func sampleSummary() *aggregate.Summary {
	return &aggregate.Summary{
		ClassifiedReviews: []aggregate.Row{
			{StoreID: "TX-1", Title: "good signal", MatchedTopics: []string{"coverage"}},
			{StoreID: "TX-2", Title: "fast 5g", MatchedTopics: []string{"coverage", "speed"}},
		},
	}
}

func readTopic(t *testing.T, path string) TopicFile {
	t.Helper()
	var f TopicFile
	if err := artifact.ReadJSON(path, &f); err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return f
}

func TestByTopic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	n, err := ByTopic(sampleSummary(), dir)
	if err != nil {
		t.Fatalf("ByTopic: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d files, want 2", n)
	}

	coverage := readTopic(t, filepath.Join(dir, "coverage_reviews.json"))
	if coverage.Category != "coverage" || coverage.Count != 2 || len(coverage.Reviews) != 2 {
		t.Errorf("coverage file wrong: %+v", coverage)
	}
	if coverage.Reviews[0].Title != "good signal" || coverage.Reviews[1].Title != "fast 5g" {
		t.Errorf("row order not preserved: %+v", coverage.Reviews)
	}

	speed := readTopic(t, filepath.Join(dir, "speed_reviews.json"))
	if speed.Count != 1 || speed.Reviews[0].StoreID != "TX-2" {
		t.Errorf("speed file wrong: %+v", speed)
	}
}

func TestByTopicOverwrites(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "speed_reviews.json")
	if err := os.WriteFile(stale, []byte(`{"category":"speed","count":99,"reviews":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ByTopic(sampleSummary(), dir); err != nil {
		t.Fatal(err)
	}
	if got := readTopic(t, stale); got.Count != 1 {
		t.Errorf("stale file not overwritten, count=%d", got.Count)
	}
}

func TestByTopicEmptySummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	n, err := ByTopic(&aggregate.Summary{}, dir)
	if err != nil {
		t.Fatalf("ByTopic: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d files for empty summary", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("output dir should exist: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir, got %d entries", len(entries))
	}
}

func TestPartition(t *testing.T) {
	parts := Partition(sampleSummary().ClassifiedReviews)
	got := map[string]int{}
	for topic, rows := range parts {
		got[topic] = len(rows)
	}
	want := map[string]int{"coverage": 2, "speed": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partition sizes (-want +got):\n%s", diff)
	}
}

type recordingWriter struct {
	topics []string
	failOn string
}

func (w *recordingWriter) WriteTopic(_ context.Context, f TopicFile) error {
	if f.Category == w.failOn {
		return errors.New("disk full")
	}
	w.topics = append(w.topics, f.Category)
	return nil
}

func TestExporterOrderAndErrors(t *testing.T) {
	w := &recordingWriter{}
	e := Exporter{Writer: w}
	n, err := e.Export(context.Background(), sampleSummary())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || !cmp.Equal(w.topics, []string{"coverage", "speed"}) {
		t.Errorf("unexpected writes: n=%d topics=%v", n, w.topics)
	}

	failing := &recordingWriter{failOn: "speed"}
	e = Exporter{Writer: failing}
	n, err = e.Export(context.Background(), sampleSummary())
	if err == nil {
		t.Fatal("expected write error")
	}
	if n != 1 {
		t.Errorf("expected 1 file written before failure, got %d", n)
	}

	if _, err := (&Exporter{}).Export(context.Background(), sampleSummary()); err == nil {
		t.Error("expected error for nil writer")
	}
}

func TestByTopicRejectsCollidingNames(t *testing.T) {
	dir := t.TempDir()
	s := &aggregate.Summary{
		ClassifiedReviews: []aggregate.Row{
			{StoreID: "TX-1", MatchedTopics: []string{"a/b"}},
			{StoreID: "TX-2", MatchedTopics: []string{"a_b"}},
		},
	}

	n, err := ByTopic(s, dir)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d files before detecting the collision", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_b_reviews.json")); !os.IsNotExist(err) {
		t.Errorf("no file should be written, stat err = %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"coverage":     "coverage_reviews.json",
		"wifi calling": "wifi_calling_reviews.json",
		"../etc":       ".._etc_reviews.json",
		"":             "unnamed_reviews.json",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}
