package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/pkg/brandpulse/config"
)

func newTextCmd(opts *rootOptions) *cobra.Command {
	var keywordsPath string

	cmd := &cobra.Command{
		Use:   "text TEXT...",
		Short: "Classify a single piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := (&config.Loader{KeywordsPath: keywordsPath}).Load()
			if err != nil {
				return err
			}
			topics := components.Reviews.Classify(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(topics, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&keywordsPath, "keywords", "", "YAML keyword table (default: built-in)")
	return cmd
}
