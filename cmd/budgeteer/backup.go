package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/config"
	"github.com/hollis-b/budgeteer/internal/storage"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage ledger backups",
		Long: `Create and list backups of the ledger database. Backups are plain
SQLite files written next to the database under a backups directory.`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a backup of the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sqliteStore, ok := store.(*storage.SQLiteStorage)
			if !ok {
				return fmt.Errorf("storage is not SQLite")
			}

			manager, err := sqliteStore.NewBackupManager()
			if err != nil {
				return fmt.Errorf("failed to create backup manager: %w", err)
			}

			path, err := manager.Create(ctx)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Backup written to %s", path)))
			return nil
		},
	}
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}

			backupsDir := filepath.Join(filepath.Dir(settings.DatabasePath), "backups")
			matches, err := filepath.Glob(filepath.Join(backupsDir, "budget_backup_*.db"))
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			if len(matches) == 0 {
				fmt.Println(cli.InfoStyle.Render("No backups found."))
				return nil
			}

			sort.Sort(sort.Reverse(sort.StringSlice(matches)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.TableHeaderStyle.Render("Backup"),
				cli.TableHeaderStyle.Render("Size"))

			for _, path := range matches {
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%s\t%.1f KiB\n", filepath.Base(path), float64(info.Size())/1024)
			}

			return nil
		},
	}
}
