package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income entries",
		Long: `Record and manage income entries: one-time payments and recurring
sources with monthly, quarterly, or yearly frequency.`,
	}

	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(listIncomeCmd())
	cmd.AddCommand(updateIncomeCmd())
	cmd.AddCommand(deleteIncomeCmd())
	cmd.AddCommand(incomeSourcesCmd())

	return cmd
}

// incomeFieldsFromFlags assembles income fields, computing the next due
// date from the frequency for recurring entries.
func incomeFieldsFromFlags(source string, amount float64, date time.Time, frequency string) (service.IncomeFields, error) {
	fields := service.IncomeFields{
		Date:   date,
		Source: source,
		Amount: amount,
	}

	if frequency != "" {
		freq := model.Frequency(frequency)
		if !freq.Valid() {
			return service.IncomeFields{}, fmt.Errorf("invalid frequency %q (want monthly, quarterly, or yearly)", frequency)
		}
		next := freq.NextDate(date)
		fields.Frequency = freq
		fields.IsRecurring = true
		fields.NextDate = &next
	}

	return fields, nil
}

func addIncomeCmd() *cobra.Command {
	var (
		source    string
		dateStr   string
		frequency string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an income entry",
		Long:  `Record an income entry. Pass --frequency to make it a recurring source.`,
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

			fields, err := incomeFieldsFromFlags(source, amount, date, frequency)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := store.CreateIncome(ctx, fields)
			if err != nil {
				return fmt.Errorf("failed to create income entry: %w", err)
			}

			msg := fmt.Sprintf("Recorded income of %s from %q (ID: %d)",
				cli.FormatMoney(entry.Amount), entry.Source, entry.ID)
			if entry.IsRecurring && entry.NextDate != nil {
				msg += fmt.Sprintf(", next due %s", entry.NextDate.Format("2006-01-02"))
			}
			fmt.Println(cli.FormatSuccess(msg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Income source name")
	cmd.Flags().StringVar(&dateStr, "date", "", "Received date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "Recurring frequency (monthly, quarterly, yearly)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func listIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List income entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.GetIncomeEntries(ctx)
			if err != nil {
				return fmt.Errorf("failed to get income entries: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No income entries found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Source"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Frequency"),
				cli.TableHeaderStyle.Render("Next Due"))

			for _, entry := range entries {
				frequency := cli.SubtleStyle.Render("one-time")
				nextDue := "-"
				if entry.IsRecurring {
					frequency = string(entry.Frequency)
					if entry.NextDate != nil {
						nextDue = entry.NextDate.Format("2006-01-02")
					}
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					entry.ID, entry.Date.Format("2006-01-02"), entry.Source,
					cli.FormatMoney(entry.Amount), frequency, nextDue)
			}

			return nil
		},
	}
}

func updateIncomeCmd() *cobra.Command {
	var (
		source    string
		amountStr string
		dateStr   string
		frequency string
		oneTime   bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an income entry",
		Long:  `Update an income entry. Changing the date or frequency recomputes the next due date.`,
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

			entries, err := store.GetIncomeEntries(ctx)
			if err != nil {
				return fmt.Errorf("failed to get income entries: %w", err)
			}

			var current *model.IncomeEntry
			for i := range entries {
				if entries[i].ID == id {
					current = &entries[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("income entry %d not found", id)
			}

			newSource := current.Source
			if cmd.Flags().Changed("source") {
				newSource = source
			}
			newAmount := current.Amount
			if cmd.Flags().Changed("amount") {
				if newAmount, err = parseAmount(amountStr); err != nil {
					return err
				}
			}
			newDate := current.Date
			if cmd.Flags().Changed("date") {
				if newDate, err = parseDate(dateStr); err != nil {
					return err
				}
			}
			newFrequency := ""
			if current.IsRecurring {
				newFrequency = string(current.Frequency)
			}
			if cmd.Flags().Changed("frequency") {
				newFrequency = frequency
			}
			if oneTime {
				newFrequency = ""
			}

			fields, err := incomeFieldsFromFlags(newSource, newAmount, newDate, newFrequency)
			if err != nil {
				return err
			}

			if err := store.UpdateIncome(ctx, id, fields); err != nil {
				return fmt.Errorf("failed to update income entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated income entry %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "New source name")
	cmd.Flags().StringVar(&amountStr, "amount", "", "New amount")
	cmd.Flags().StringVar(&dateStr, "date", "", "New received date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&frequency, "frequency", "f", "", "New recurring frequency (monthly, quarterly, yearly)")
	cmd.Flags().BoolVar(&oneTime, "one-time", false, "Make the entry one-time (clears frequency)")

	return cmd
}

func deleteIncomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an income entry",
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

			if err := store.DeleteIncome(ctx, id); err != nil {
				return fmt.Errorf("failed to delete income entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted income entry %d", id)))
			return nil
		},
	}
}

func incomeSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List known income sources",
		Long:  `List income source names drawn from both income categories and recorded entries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sources, err := store.GetIncomeSources(ctx)
			if err != nil {
				return fmt.Errorf("failed to get income sources: %w", err)
			}

			if len(sources) == 0 {
				fmt.Println(cli.InfoStyle.Render("No income sources found."))
				return nil
			}

			for _, source := range sources {
				fmt.Println(source)
			}
			return nil
		},
	}
}
