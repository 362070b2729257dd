package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/ofx"
)

func importCmd() *cobra.Command {
	var dryRun bool
	var kind string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your
bank. Debits are recorded as expenses and credits as income; imported
rows start out uncategorized.`,
		Example: `  # Import a single file
  budgeteer import ~/Downloads/checking_jan.qfx

  # Import everything in a directory
  budgeteer import ~/Downloads/*.qfx

  # Preview without saving
  budgeteer import --dry-run ~/Downloads/checking_jan.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var forcedType model.TransactionType
			if kind != "" {
				forcedType = model.TransactionType(kind)
				if !forcedType.Valid() {
					return fmt.Errorf("invalid kind %q: must be expense or income", kind)
				}
			}

			// Expand globs and collect all files
			var allFiles []string
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
					if _, err := os.Stat(pattern); err == nil {
						allFiles = append(allFiles, pattern)
					} else {
						fmt.Println(cli.FormatWarning(fmt.Sprintf("No files match %s", pattern)))
					}
				} else {
					allFiles = append(allFiles, matches...)
				}
			}

			if len(allFiles) == 0 {
				return fmt.Errorf("no files found to import")
			}

			parser := ofx.NewParser()
			var allTransactions []model.Transaction

			bar := progressbar.NewOptions(len(allFiles),
				progressbar.OptionSetDescription("Parsing files..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionClearOnFinish(),
			)

			for _, filePath := range allFiles {
				f, err := os.Open(filePath)
				if err != nil {
					fmt.Println(cli.FormatError(fmt.Sprintf("Failed to open %s: %v", filePath, err)))
					_ = bar.Add(1)
					continue
				}

				transactions, err := parser.ParseFile(ctx, f)
				f.Close()
				if err != nil {
					fmt.Println(cli.FormatError(fmt.Sprintf("Failed to parse %s: %v", filepath.Base(filePath), err)))
					_ = bar.Add(1)
					continue
				}

				allTransactions = append(allTransactions, transactions...)
				_ = bar.Add(1)
			}

			if len(allTransactions) == 0 {
				return fmt.Errorf("no transactions found in %d file(s)", len(allFiles))
			}

			if forcedType != "" {
				for i := range allTransactions {
					allTransactions[i].Type = forcedType
				}
			}

			if dryRun {
				printTransactionTable(allTransactions)
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d transaction(s) parsed, nothing saved", len(allTransactions))))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveTransactions(ctx, allTransactions); err != nil {
				return fmt.Errorf("failed to save imported transactions: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s) from %d file(s)",
				len(allTransactions), len(allFiles))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview import without saving")
	cmd.Flags().StringVar(&kind, "kind", "", "Record every imported transaction as this kind (expense or income)")

	return cmd
}
