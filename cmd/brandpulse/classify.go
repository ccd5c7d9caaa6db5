package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/internal/nominatim"
	"github.com/cognicore/brandpulse/pkg/brandpulse"
	"github.com/cognicore/brandpulse/pkg/brandpulse/aggregate"
	"github.com/cognicore/brandpulse/pkg/brandpulse/config"
	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store/sqlite"
)

type classifyOptions struct {
	datasetPath  string
	outPath      string
	keywordsPath string
	exportDir    string
	filters      aggregate.Filters
	geocode      bool
	dbPath       string
	top          int
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	o := &classifyOptions{filters: aggregate.DefaultFilters()}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify dataset reviews by topic and write a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.OutOrStdout(), opts, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.datasetPath, "dataset", "", "review dataset JSON")
	f.StringVar(&o.outPath, "out", "", "summary output path")
	f.StringVar(&o.keywordsPath, "keywords", "", "YAML keyword table (default: built-in)")
	f.StringVar(&o.exportDir, "export-dir", "", "also write per-topic files into this directory")
	f.IntVar(&o.filters.MinRating, "min-rating", aggregate.MinRating, "minimum rating (inclusive)")
	f.IntVar(&o.filters.MaxRating, "max-rating", aggregate.MaxRating, "maximum rating (inclusive)")
	f.StringVar(&o.filters.Sentiment, "sentiment", aggregate.AnySentiment, "sentiment filter: positive|negative|neutral|unknown|any")
	f.StringVar(&o.filters.State, "state", "", "restrict to one state")
	f.StringVar(&o.filters.City, "city", "", "restrict to one city")
	f.BoolVar(&o.geocode, "geocode", false, "resolve city coordinates before aggregating")
	f.StringVar(&o.dbPath, "db", "", "SQLite database for the persistent geocode cache")
	f.IntVar(&o.top, "top", 10, "number of top topics to print (0 for all)")
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runClassify(ctx context.Context, out io.Writer, opts *rootOptions, o *classifyOptions) error {
	if o.filters.MinRating > o.filters.MaxRating {
		return fmt.Errorf("%w: --min-rating %d exceeds --max-rating %d", internalerr.ErrInvalidInput, o.filters.MinRating, o.filters.MaxRating)
	}

	loader := config.Loader{KeywordsPath: o.keywordsPath}
	components, err := loader.Load()
	if err != nil {
		return err
	}

	popts := brandpulse.Options{Classifier: components.Reviews, Logger: opts.logger}
	if o.geocode {
		enricher, closeFn, err := newEnricher(ctx, opts, o.dbPath)
		if err != nil {
			return err
		}
		defer closeFn()
		popts.Enricher = enricher
	}

	res, err := brandpulse.New(popts).Run(ctx, brandpulse.Request{
		DatasetPath: o.datasetPath,
		SummaryPath: o.outPath,
		ExportDir:   o.exportDir,
		Filters:     o.filters,
	})
	if err != nil {
		return err
	}

	printReport(out, res, o.top)
	return nil
}

// newEnricher wires the Nominatim client to an in-memory cache, or to the
// SQLite cache when dbPath is set.
func newEnricher(ctx context.Context, opts *rootOptions, dbPath string) (*geocode.Enricher, func() error, error) {
	client := nominatim.New(getEnv(envNominatimBase, nominatim.DefaultBaseURL), getEnv(envUserAgent, nominatim.DefaultUserAgent))
	e := &geocode.Enricher{Provider: client, Logger: opts.logger}

	if dbPath == "" {
		e.Cache = geocode.NewMemCache()
		return e, func() error { return nil }, nil
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open geocode cache: %w", err)
	}
	e.Cache = st
	return e, st.Close, nil
}

func printReport(w io.Writer, res *brandpulse.Result, top int) {
	s := res.Summary
	fmt.Fprintf(w, "Classified %d reviews (%d stores, %d cities)\n", s.Meta.TotalReviewsClassified, res.Stats.Stores, res.Stats.Cities)
	if res.Exported > 0 {
		fmt.Fprintf(w, "Exported %d topic files\n", res.Exported)
	}
	fmt.Fprintln(w, "Top topics:")
	for _, tc := range s.TopTopics(top) {
		fmt.Fprintf(w, "  %-20s %d\n", tc.Topic, tc.Count)
	}
}
