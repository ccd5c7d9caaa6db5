package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/brandpulse/internal/bluesky"
	"github.com/cognicore/brandpulse/internal/logging"
	"github.com/cognicore/brandpulse/pkg/brandpulse/collect"
	"github.com/cognicore/brandpulse/pkg/brandpulse/config"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store/sqlite"
)

func newCollectCmd(opts *rootOptions) *cobra.Command {
	var cfgPath string
	var once bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Poll social search for brand posts and merge them into collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadCollector(cfgPath)
			if err != nil {
				return err
			}

			logger := opts.logger
			if cfg.LogFile != "" {
				fileLogger, closeLog, err := logging.Tee(cfg.LogFile, opts.logLevel)
				if err != nil {
					return err
				}
				defer closeLog()
				logger = fileLogger
			}

			loader := config.Loader{CategoriesPath: cfg.CategoriesPath}
			components, err := loader.Load()
			if err != nil {
				return err
			}

			c := &collect.Collector{
				Searcher: bluesky.New(getEnv(envBskyBase, bluesky.DefaultBaseURL), getEnv(envBskyToken, "")),
				Terms:    cfg.SearchTerms,
				Limit:    cfg.Limit,
				Interval: cfg.Interval,
				Output:   cfg.Output,
				Logger:   logger,
			}
			if cfg.CategoryDir != "" {
				c.Categories = components.Posts
				c.CategoryDir = cfg.CategoryDir
			}
			if cfg.ArchiveDB != "" {
				st, err := sqlite.OpenSQLite(ctx, cfg.ArchiveDB)
				if err != nil {
					return fmt.Errorf("open archive: %w", err)
				}
				defer st.Close()
				c.Store = st
			}

			if once {
				rep, err := c.RunOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d fetched, %d unique, %d added (total %d)\n",
					rep.RunID, rep.Fetched, rep.Unique, rep.Added, rep.Total)
				return nil
			}

			logger.Info("polling", "every", cfg.Interval.Round(time.Second))
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "collector YAML config (default: built-in settings)")
	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit")
	return cmd
}
