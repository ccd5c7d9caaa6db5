package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/pkg/brandpulse"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var summaryPath, outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Split a topics summary into per-topic review files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := brandpulse.ExportSummary(summaryPath, outDir)
			if err != nil {
				return err
			}
			opts.logger.Debug("export complete", "summary", summaryPath, "files", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d topic files to %s\n", n, outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&summaryPath, "summary", "", "path to topics_summary.json")
	cmd.Flags().StringVar(&outDir, "outdir", "", "directory for <topic>_reviews.json files")
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("outdir")
	return cmd
}
