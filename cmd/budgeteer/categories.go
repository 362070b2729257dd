package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage budget categories",
		Long:  `List, add, update, and delete the categories transactions are tracked under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display all categories with their budgets, alert thresholds, and need flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'budgeteer categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Budget"),
				cli.TableHeaderStyle.Render("Alert"),
				cli.TableHeaderStyle.Render("Need"))

			for _, cat := range categories {
				need := ""
				if cat.IsNeed {
					need = cli.SuccessIcon
				}
				budget := cli.SubtleStyle.Render("-")
				alert := cli.SubtleStyle.Render("-")
				if cat.Type == model.CategoryTypeExpense {
					budget = cli.FormatMoney(cat.MonthlyBudget)
					alert = fmt.Sprintf("%d%%", cat.AlertThreshold)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					cat.ID, cat.Name, cat.Type, budget, alert, need)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		budget       float64
		threshold    int
		isNeed       bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long:  `Create a new budget category. Expense categories carry a monthly budget and an alert threshold.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			fields := service.CategoryFields{
				Name:           args[0],
				Type:           model.CategoryType(categoryType),
				MonthlyBudget:  budget,
				AlertThreshold: threshold,
				IsNeed:         isNeed,
			}

			category, err := store.CreateCategory(ctx, fields)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "expense", "Category type (expense, income)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Monthly budget for expense categories")
	cmd.Flags().IntVar(&threshold, "threshold", model.DefaultAlertThreshold, "Alert threshold as percent of budget (0-100)")
	cmd.Flags().BoolVar(&isNeed, "need", false, "Mark as essential spending for the emergency fund projection")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name      string
		budget    float64
		threshold int
		isNeed    bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Long:  `Update the name, budget, alert threshold, or need flag of an existing category.`,
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

			current, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get category: %w", err)
			}
			if current == nil {
				return fmt.Errorf("category %d not found", id)
			}

			fields := service.CategoryFields{
				Name:           current.Name,
				Type:           current.Type,
				MonthlyBudget:  current.MonthlyBudget,
				AlertThreshold: current.AlertThreshold,
				IsNeed:         current.IsNeed,
			}
			if cmd.Flags().Changed("name") {
				fields.Name = name
			}
			if cmd.Flags().Changed("budget") {
				fields.MonthlyBudget = budget
			}
			if cmd.Flags().Changed("threshold") {
				fields.AlertThreshold = threshold
			}
			if cmd.Flags().Changed("need") {
				fields.IsNeed = isNeed
			}

			if err := store.UpdateCategory(ctx, id, fields); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New category name")
	cmd.Flags().Float64Var(&budget, "budget", 0, "New monthly budget")
	cmd.Flags().IntVar(&threshold, "threshold", model.DefaultAlertThreshold, "New alert threshold (0-100)")
	cmd.Flags().BoolVar(&isNeed, "need", false, "Mark or unmark as essential spending")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Transactions keep their history but lose the category link.`,
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

			if !force {
				fmt.Printf("Are you sure you want to delete category %d? Its transactions become uncategorized. (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := store.DeleteCategory(ctx, id); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
