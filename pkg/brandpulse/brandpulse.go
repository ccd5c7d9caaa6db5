package brandpulse

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cognicore/brandpulse/pkg/brandpulse/aggregate"
	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
	"github.com/cognicore/brandpulse/pkg/brandpulse/export"
	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
)

// Pipeline is the review classification facade: load, enrich, aggregate,
// write, export.
type Pipeline struct {
	classifier *classify.Classifier
	enricher   *geocode.Enricher
	logger     *log.Logger
}

// Options configures a Pipeline
type Options struct {
	Classifier *classify.Classifier // nil selects the default keyword table
	Enricher   *geocode.Enricher    // nil disables geocoding
	Logger     *log.Logger
}

// New creates a Pipeline with the given dependencies
func New(opts Options) *Pipeline {
	c := opts.Classifier
	if c == nil {
		c = classify.New(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{classifier: c, enricher: opts.Enricher, logger: logger}
}

// Classifier returns the classifier in use.
func (p *Pipeline) Classifier() *classify.Classifier {
	return p.classifier
}

// ClassifyText tags a single text.
func (p *Pipeline) ClassifyText(text string) []string {
	return p.classifier.Classify(text)
}

// Request describes one pipeline run.
type Request struct {
	DatasetPath string
	SummaryPath string // empty skips writing the summary
	ExportDir   string // empty skips per-topic export
	Filters     aggregate.Filters
}

// Result reports what a run produced.
type Result struct {
	Summary  *aggregate.Summary
	Stats    dataset.Stats
	Geocode  geocode.Result
	Exported int
}

// Run executes the pipeline for req.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	ds, err := dataset.Load(req.DatasetPath)
	if err != nil {
		return nil, err
	}
	res := &Result{Stats: ds.Stats()}
	p.logger.Info("loaded dataset",
		"path", req.DatasetPath,
		"states", res.Stats.States,
		"stores", res.Stats.Stores,
		"reviews", res.Stats.Reviews)

	if p.enricher != nil {
		gr, err := p.enricher.Enrich(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("geocode: %w", err)
		}
		res.Geocode = gr
		p.logger.Info("geocoded cities", "resolved", gr.Resolved, "cached", gr.Cached, "failed", gr.Failed)
	}

	res.Summary = aggregate.Aggregate(ds, p.classifier, req.Filters)
	p.logger.Info("classified reviews", "rows", res.Summary.Meta.TotalReviewsClassified, "topics", len(res.Summary.TopicCountsOverall))

	if req.SummaryPath != "" {
		if err := aggregate.WriteSummary(req.SummaryPath, res.Summary); err != nil {
			return res, err
		}
		p.logger.Info("wrote summary", "path", req.SummaryPath)
	}

	if req.ExportDir != "" {
		n, err := p.export(ctx, res.Summary, req.ExportDir)
		res.Exported = n
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (p *Pipeline) export(ctx context.Context, s *aggregate.Summary, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	e := export.Exporter{Writer: export.DirWriter{Dir: dir}}
	n, err := e.Export(ctx, s)
	if err != nil {
		return n, err
	}
	p.logger.Info("exported topics", "dir", dir, "files", n)
	return n, nil
}

// ExportSummary is the export-only path: read an existing summary and write
// its per-topic files into outDir.
func ExportSummary(summaryPath, outDir string) (int, error) {
	s, err := aggregate.ReadSummary(summaryPath)
	if err != nil {
		return 0, err
	}
	return export.ByTopic(s, outDir)
}
