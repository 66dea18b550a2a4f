package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/newspie/internal/config"
	"github.com/joestump/newspie/internal/logging"
	"github.com/joestump/newspie/internal/store"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the upstream response cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, logCloser, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logCloser.Close() }()

			cache, err := store.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			n, err := cache.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", n)
			return nil
		},
	})
	return cacheCmd
}
