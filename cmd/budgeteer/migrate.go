package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/config"
	"github.com/hollis-b/budgeteer/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the ledger schema to the latest version.

Migrations also run automatically before any command that touches the
database, so this is mainly useful for provisioning a fresh ledger.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}

			slog.Info("Running database migrations", "database", settings.DatabasePath)

			store, err := storage.NewSQLiteStorage(settings.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			slog.Info("Database migrations completed", "version", storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
