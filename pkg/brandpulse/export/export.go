package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/brandpulse/pkg/brandpulse/aggregate"
	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
)

// TopicFile is the per-topic artifact.
type TopicFile struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Reviews  []aggregate.Row `json:"reviews"`
}

// TopicWriter persists one topic partition (file, DB, etc.).
type TopicWriter interface {
	WriteTopic(ctx context.Context, f TopicFile) error
}

// PathWriter is a TopicWriter that stores each topic under a derived path.
// Distinct topics must not share one.
type PathWriter interface {
	TopicWriter
	Path(topic string) string
}

// Exporter splits a summary's rows by topic and hands each partition to
// a TopicWriter.
type Exporter struct {
	Writer TopicWriter
}

// Export writes one partition per topic that has rows, in topic order, and
// returns the number written.
func (e *Exporter) Export(ctx context.Context, s *aggregate.Summary) (int, error) {
	if e.Writer == nil {
		return 0, fmt.Errorf("topic exporter: nil writer")
	}

	parts := Partition(s.ClassifiedReviews)
	topics := make([]string, 0, len(parts))
	for topic := range parts {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	if pw, ok := e.Writer.(PathWriter); ok {
		if err := checkPaths(pw, topics); err != nil {
			return 0, err
		}
	}

	written := 0
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rows := parts[topic]
		if len(rows) == 0 {
			continue
		}
		if err := e.Writer.WriteTopic(ctx, TopicFile{Category: topic, Count: len(rows), Reviews: rows}); err != nil {
			return written, fmt.Errorf("export %s: %w", topic, err)
		}
		written++
	}
	return written, nil
}

// checkPaths rejects topic sets where two topics would overwrite each other.
func checkPaths(pw PathWriter, topics []string) error {
	owner := make(map[string]string, len(topics))
	for _, topic := range topics {
		path := pw.Path(topic)
		if prev, ok := owner[path]; ok {
			return fmt.Errorf("%w: topics %q and %q both export to %s", internalerr.ErrInvalidInput, prev, topic, filepath.Base(path))
		}
		owner[path] = topic
	}
	return nil
}

// Partition groups rows by matched topic, preserving row order. A row with
// N topics appears in N partitions.
func Partition(rows []aggregate.Row) map[string][]aggregate.Row {
	out := make(map[string][]aggregate.Row)
	for _, r := range rows {
		for _, topic := range r.MatchedTopics {
			out[topic] = append(out[topic], r)
		}
	}
	return out
}

// DirWriter writes <topic>_reviews.json files into Dir.
type DirWriter struct {
	Dir string
}

// WriteTopic implements TopicWriter.
func (w DirWriter) WriteTopic(_ context.Context, f TopicFile) error {
	return artifact.WriteJSON(w.Path(f.Category), f, artifact.IndentSummary)
}

// Path returns the file path used for topic.
func (w DirWriter) Path(topic string) string {
	return filepath.Join(w.Dir, FileName(topic))
}

// FileName returns the artifact name for topic.
func FileName(topic string) string {
	return sanitize(topic) + "_reviews.json"
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ', '\t', '\n', 0:
			return '_'
		}
		return r
	}, s)
}

// ByTopic writes the summary's per-topic files into outDir, creating it if
// needed and overwriting earlier files, and returns how many were written.
func ByTopic(s *aggregate.Summary, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	e := Exporter{Writer: DirWriter{Dir: outDir}}
	return e.Export(context.Background(), s)
}
