package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
)

func newGeocodeCmd(opts *rootOptions) *cobra.Command {
	var datasetPath, outPath, dbPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Attach city coordinates to a review dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := dataset.LoadDocument(datasetPath)
			if err != nil {
				return err
			}

			enricher, closeFn, err := newEnricher(ctx, opts, dbPath)
			if err != nil {
				return err
			}
			defer closeFn()
			enricher.Overwrite = overwrite

			res, err := enricher.Enrich(ctx, doc.Dataset())
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = datasetPath
			}
			if err := doc.Save(outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Geocoded %d of %d cities (%d cached, %d skipped, %d failed) -> %s\n",
				res.Resolved+res.Cached, res.Cities, res.Cached, res.Skipped, res.Failed, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "review dataset JSON")
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default: overwrite --dataset)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for the persistent geocode cache")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "re-resolve cities that already have coordinates")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}
