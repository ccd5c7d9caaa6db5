package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/internal/logging"
)

// rootOptions carries persistent flags and the logger built from them.
type rootOptions struct {
	logLevel string
	envFiles []string

	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "brandpulse",
		Short:         "Classify brand reviews and collect brand posts by topic",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			loadEnv(logger, opts.envFiles)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "env files to load before reading BRANDPULSE_* variables")

	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newClassifyCmd(opts))
	rootCmd.AddCommand(newGeocodeCmd(opts))
	rootCmd.AddCommand(newCollectCmd(opts))
	rootCmd.AddCommand(newSampleCmd(opts))
	rootCmd.AddCommand(newTextCmd(opts))

	return rootCmd
}
