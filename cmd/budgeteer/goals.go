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

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
		Long:  `Create and track named savings goals with target amounts and dates.`,
	}

	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(updateGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func addGoalCmd() *cobra.Command {
	var (
		targetStr    string
		targetDate   string
		currentStr   string
		contribution float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := parseAmount(targetStr)
			if err != nil {
				return err
			}
			date, err := parseDate(targetDate)
			if err != nil {
				return err
			}

			fields := service.GoalFields{
				Name:                args[0],
				TargetDate:          date,
				TargetAmount:        target,
				MonthlyContribution: contribution,
			}
			if currentStr != "" {
				current, err := parseAmount(currentStr)
				if err != nil {
					return err
				}
				fields.CurrentAmount = current
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			goal, err := store.CreateGoal(ctx, fields)
			if err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created goal %q targeting %s by %s (ID: %d)",
				goal.Name, cli.FormatMoney(goal.TargetAmount), goal.TargetDate.Format("2006-01-02"), goal.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&targetStr, "target", "", "Target amount")
	cmd.Flags().StringVar(&targetDate, "by", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&currentStr, "saved", "", "Amount already saved")
	cmd.Flags().Float64Var(&contribution, "monthly", 0, "Planned monthly contribution")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func listGoalsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		Long:  `List active savings goals. Pass --all to include goals past their target date.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var goals []model.SavingsGoal
			if all {
				goals, err = store.GetGoals(ctx)
			} else {
				goals, err = store.GetActiveGoals(ctx, time.Now())
			}
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println(cli.InfoStyle.Render("No savings goals found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Saved"),
				cli.TableHeaderStyle.Render("Target"),
				cli.TableHeaderStyle.Render("Progress"),
				cli.TableHeaderStyle.Render("By"))

			for _, goal := range goals {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					goal.ID, goal.Name,
					cli.FormatMoney(goal.CurrentAmount),
					cli.FormatMoney(goal.TargetAmount),
					cli.FormatPercent(goal.ProgressPct()),
					goal.TargetDate.Format("2006-01-02"))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include goals past their target date")

	return cmd
}

func updateGoalCmd() *cobra.Command {
	var (
		name         string
		targetStr    string
		targetDate   string
		savedStr     string
		contribution float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a savings goal",
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

			goals, err := store.GetGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			fields := service.GoalFields{}
			found := false
			for _, goal := range goals {
				if goal.ID == id {
					fields = service.GoalFields{
						Name:                goal.Name,
						TargetDate:          goal.TargetDate,
						TargetAmount:        goal.TargetAmount,
						CurrentAmount:       goal.CurrentAmount,
						MonthlyContribution: goal.MonthlyContribution,
					}
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("goal %d not found", id)
			}

			if cmd.Flags().Changed("name") {
				fields.Name = name
			}
			if cmd.Flags().Changed("target") {
				if fields.TargetAmount, err = parseAmount(targetStr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("by") {
				if fields.TargetDate, err = parseDate(targetDate); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("saved") {
				if fields.CurrentAmount, err = parseAmount(savedStr); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("monthly") {
				fields.MonthlyContribution = contribution
			}

			if err := store.UpdateGoal(ctx, id, fields); err != nil {
				return fmt.Errorf("failed to update goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated goal %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New goal name")
	cmd.Flags().StringVar(&targetStr, "target", "", "New target amount")
	cmd.Flags().StringVar(&targetDate, "by", "", "New target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&savedStr, "saved", "", "New saved amount")
	cmd.Flags().Float64Var(&contribution, "monthly", 0, "New planned monthly contribution")

	return cmd
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a savings goal",
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

			if err := store.DeleteGoal(ctx, id); err != nil {
				return fmt.Errorf("failed to delete goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted goal %d", id)))
			return nil
		},
	}
}
