package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chelseasymphony/donations/internal/config"
	"github.com/chelseasymphony/donations/internal/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			setLogLevel(cfg.LogLevel)

			switch args[0] {
			case "up":
				return database.RunMigrations(cfg.DatabaseURL())
			case "down":
				return database.RollbackMigrations(cfg.DatabaseURL())
			case "status":
				status, err := database.MigrationVersion(cfg.DatabaseURL())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", status.Version, status.Dirty)
				return nil
			}
			return fmt.Errorf("unknown migrate action %q", args[0])
		},
	}
	cmd.Flags().StringVar(&database.MigrationsDir, "source", database.MigrationsDir, "migration source URL")
	return cmd
}
