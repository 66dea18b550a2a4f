package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/newspie/internal/config"
	"github.com/joestump/newspie/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run response cache migrations (SQL cache drivers only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.IsSQLCache() {
				return fmt.Errorf("cache driver %q has no schema to migrate", cfg.Cache.Driver)
			}

			database, err := db.New(cfg.Cache.Driver, cfg.Cache.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.Cache.Driver); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations complete")
			return nil
		},
	}
}
