package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		fromStr string
		toStr   string
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a spending report",
		Long: `Generate a date-range report: daily spending, spend by category, and
monthly income versus expenses. Defaults to the last 30 days.`,
		Example: `  # Report over the last 30 days
  budgeteer report

  # Report over a specific range
  budgeteer report --from 2026-01-01 --to 2026-03-31

  # Export to CSV
  budgeteer report --from 2026-01-01 --to 2026-03-31 --csv q1.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			end := time.Now()
			start := end.AddDate(0, 0, -30)
			var err error
			if fromStr != "" {
				if start, err = parseDate(fromStr); err != nil {
					return err
				}
			}
			if toStr != "" {
				if end, err = parseDate(toStr); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rep, err := report.NewGenerator(store).Generate(ctx, start, end)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create CSV file: %w", err)
				}
				defer f.Close()

				if err := rep.WriteCSV(f); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Report exported to %s", csvPath)))
				return nil
			}

			printReport(rep)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD, default 30 days ago)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the report to a CSV file instead of stdout")

	return cmd
}

func printReport(rep *report.Report) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Report %s to %s",
		rep.Start.Format("2006-01-02"), rep.End.Format("2006-01-02"))))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Println(cli.SubtitleStyle.Render("Spending by category"))
	for _, cat := range rep.Distribution {
		fmt.Fprintf(w, "%s\t%s\n", cat.Name, cli.FormatMoney(cat.Total))
	}
	w.Flush()

	fmt.Println()
	fmt.Println(cli.SubtitleStyle.Render("Income vs expenses by month"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Month"),
		cli.TableHeaderStyle.Render("Income"),
		cli.TableHeaderStyle.Render("Expenses"),
		cli.TableHeaderStyle.Render("Net"))
	for _, month := range rep.Comparison {
		net := month.Income - month.Expense
		netStr := cli.FormatMoney(net)
		if net < 0 {
			netStr = cli.ErrorStyle.Render(netStr)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			month.Month, cli.FormatMoney(month.Income), cli.FormatMoney(month.Expense), netStr)
	}
	w.Flush()

	fmt.Println()
	fmt.Printf("%d days with spending in range\n", len(rep.DailySpending))
}
