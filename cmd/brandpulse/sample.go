package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
)

func newSampleCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample review dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := dataset.Sample(seed, time.Now())
			if err := dataset.Save(outPath, ds); err != nil {
				return err
			}
			st := ds.Stats()
			opts.logger.Debug("sample written", "seed", seed)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d reviews across %d stores in %d states to %s\n",
				st.Reviews, st.Stores, st.States, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output path")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
