package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/metrics"
)

func fundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Track the emergency fund",
		Long: `Show and update the emergency fund. The target is derived: six months
of projected essential spending, recomputed whenever the fund is shown.`,
	}

	cmd.AddCommand(showFundCmd())
	cmd.AddCommand(setFundCmd())

	return cmd
}

func showFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show emergency fund status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			engine := metrics.NewEngine(store)
			status, err := engine.EmergencyFund(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute emergency fund status: %w", err)
			}

			fmt.Println(cli.RenderCard("Emergency Fund", renderFundStatus(status)))
			return nil
		},
	}
}

func renderFundStatus(status metrics.EmergencyFundStatus) string {
	progress := cli.FormatPercent(status.ProgressPct)
	if status.ProgressPct >= 100 {
		progress = cli.SuccessStyle.Render(progress)
	}
	return fmt.Sprintf("Saved:    %s\nTarget:   %s (6 months of needs)\nMonthly:  %s\nProgress: %s",
		cli.FormatMoney(status.Current),
		cli.FormatMoney(status.Target),
		cli.FormatMoney(status.MonthlyContribution),
		progress)
}

func setFundCmd() *cobra.Command {
	var monthly float64

	cmd := &cobra.Command{
		Use:   "set <current-amount>",
		Short: "Set the fund balance and monthly contribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			current, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SetEmergencyFund(ctx, current, monthly); err != nil {
				return fmt.Errorf("failed to update emergency fund: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Emergency fund balance set to %s", cli.FormatMoney(current))))
			return nil
		},
	}

	cmd.Flags().Float64Var(&monthly, "monthly", 0, "Monthly contribution amount")

	return cmd
}
