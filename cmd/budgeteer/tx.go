package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage ledger transactions",
		Long:  `Add, list, and delete the individual expense and income transactions in the ledger.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		txType       string
		categoryName string
		description  string
		dateStr      string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Long:  `Record an expense or income transaction. Defaults to an expense dated today.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			date := time.Now()
			if dateStr != "" {
				if date, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txn := &model.Transaction{
				Date:        date,
				Description: description,
				Type:        model.TransactionType(txType),
				Amount:      amount,
			}

			if categoryName != "" {
				category, err := store.GetCategoryByName(ctx, categoryName)
				if err != nil {
					return fmt.Errorf("failed to look up category: %w", err)
				}
				if category == nil {
					return fmt.Errorf("%w: %q", common.ErrUnknownCategory, categoryName)
				}
				txn.CategoryID = &category.ID
			}

			saved, err := store.SaveTransaction(ctx, txn)
			if err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s (ID: %d)",
				saved.Type, cli.FormatMoney(saved.Amount), saved.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "expense", "Transaction type (expense, income)")
	cmd.Flags().StringVarP(&categoryName, "category", "c", "", "Category name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-form description")
	cmd.Flags().StringVar(&dateStr, "date", "", "Transaction date (YYYY-MM-DD, default today)")

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		fromStr string
		toStr   string
		txType  string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List ledger transactions, newest first, with optional date and type filters.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{
				Type:  model.TransactionType(txType),
				Limit: limit,
			}
			if fromStr != "" {
				from, err := parseDate(fromStr)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := parseDate(toStr)
				if err != nil {
					return err
				}
				filter.EndDate = &to
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get transactions: %w", err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			printTransactionTable(transactions)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&txType, "type", "", "Filter by type (expense, income)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to show (0 for all)")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteTransaction(ctx, id); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}

func printTransactionTable(transactions []model.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Type"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Description"))

	for _, txn := range transactions {
		category := txn.CategoryName
		if category == "" {
			category = cli.SubtleStyle.Render("(uncategorized)")
		}
		amount := cli.FormatMoney(txn.Amount)
		if txn.Type == model.TransactionTypeIncome {
			amount = cli.SuccessStyle.Render("+" + amount)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID, txn.Date.Format("2006-01-02"), txn.Type, category, amount, txn.Description)
	}
}
