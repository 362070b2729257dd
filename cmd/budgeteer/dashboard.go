package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hollis-b/budgeteer/internal/cli"
	"github.com/hollis-b/budgeteer/internal/config"
	"github.com/hollis-b/budgeteer/internal/metrics"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
	"github.com/hollis-b/budgeteer/internal/storage"
)

func dashboardCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the budget dashboard",
		Long: `Compute and display the full dashboard: budget position, emergency
fund, income, savings goals, spending trends, and insights.

With --watch the dashboard redraws on an interval and periodically
sweeps for categories over their alert threshold.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, err := config.Load()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			engine := metrics.NewEngine(store)

			if !watch {
				fmt.Println(renderDashboard(engine.Snapshot(ctx)))
				return nil
			}

			return watchDashboard(ctx, store, engine, settings)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw the dashboard on an interval")

	return cmd
}

// watchDashboard redraws the dashboard on the refresh interval and runs an
// alert sweep on the alert interval, until the context is canceled. On
// shutdown the ledger is backed up when backups are enabled.
func watchDashboard(ctx context.Context, store service.Storage, engine *metrics.Engine, settings *config.Settings) error {
	cache := metrics.NewSnapshotCache(engine, settings.SnapshotTTL)

	refresh := time.NewTicker(settings.RefreshInterval)
	defer refresh.Stop()
	alerts := time.NewTicker(settings.AlertInterval)
	defer alerts.Stop()

	draw := func() {
		fmt.Print("\033[H\033[2J") // clear screen
		fmt.Println(renderDashboard(cache.Get(ctx)))
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Refreshing every %s. Press Ctrl+C to exit.", settings.RefreshInterval)))
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			if settings.BackupOnExit {
				backupOnShutdown(store)
			}
			return nil
		case <-refresh.C:
			draw()
		case <-alerts.C:
			sweepAlerts(ctx, engine)
			cache.Invalidate()
		}
	}
}

// sweepAlerts logs every category currently over its alert threshold.
func sweepAlerts(ctx context.Context, engine *metrics.Engine) {
	alerting, err := engine.AlertingCategories(ctx)
	if err != nil {
		slog.Warn("alert sweep failed", "error", err)
		return
	}
	for _, cat := range alerting {
		slog.Warn("category over alert threshold",
			"category", cat.Name,
			"spent", cat.Spent,
			"budget", cat.Budget,
			"utilization_pct", cat.UtilizationPct)
	}
}

// backupOnShutdown takes a best-effort backup of the ledger. Failures are
// logged, not fatal; shutdown proceeds regardless.
func backupOnShutdown(store service.Storage) {
	sqliteStore, ok := store.(*storage.SQLiteStorage)
	if !ok {
		return
	}
	manager, err := sqliteStore.NewBackupManager()
	if err != nil {
		slog.Warn("backup skipped", "error", err)
		return
	}
	path, err := manager.Create(context.Background())
	if err != nil {
		slog.Warn("backup failed", "error", err)
		return
	}
	slog.Info("ledger backed up", "path", path)
}

func renderDashboard(snap metrics.Snapshot) string {
	cards := []string{
		cli.RenderCard("Monthly Budget", renderBudgetCard(snap.Budget)),
		cli.RenderCard("Emergency Fund", renderFundStatus(snap.Emergency)),
		cli.RenderCard("Income", renderIncomeCard(snap.Income)),
		cli.RenderCard("Savings Goals", renderGoalsCard(snap.Goals)),
	}

	sections := []string{
		cli.FormatTitle("Budget Dashboard"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]),
	}

	if len(snap.Trends) > 0 {
		sections = append(sections, cli.RenderCard("Spending Trend", renderTrendsCard(snap.Trends)))
	}
	if len(snap.TopCategories) > 0 {
		sections = append(sections, cli.RenderCard("Top Categories", renderTopCategoriesCard(snap.TopCategories)))
	}
	if len(snap.Insights) > 0 {
		sections = append(sections, renderInsights(snap.Insights))
	}
	if len(snap.RecentTransactions) > 0 {
		sections = append(sections, cli.RenderCard("Recent Transactions", renderRecentCard(snap.RecentTransactions)))
	}

	sections = append(sections,
		cli.SubtleStyle.Render("Computed at "+snap.ComputedAt.Format("2006-01-02 15:04:05")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderBudgetCard(budget metrics.BudgetOverview) string {
	remaining := cli.FormatMoney(budget.Remaining)
	if budget.Remaining < 0 {
		remaining = cli.ErrorStyle.Render(remaining + " over budget")
	}
	return fmt.Sprintf("Budget:    %s\nSpent:     %s\nRemaining: %s",
		cli.FormatMoney(budget.TotalBudget),
		cli.FormatMoney(budget.TotalSpent),
		remaining)
}

func renderIncomeCard(income metrics.MonthlyIncome) string {
	return fmt.Sprintf("This month:   %s\nRecurring:    %s (%s)\nFrom ledger:  %s",
		cli.FormatMoney(income.Total),
		cli.FormatMoney(income.RecurringTotal),
		cli.FormatPercent(income.RecurringSharePct),
		cli.FormatMoney(income.TransactionIncome))
}

func renderGoalsCard(goals metrics.GoalsSummary) string {
	if goals.Count == 0 {
		return cli.SubtleStyle.Render("No active goals")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d active, %s saved\n", goals.Count, cli.FormatMoney(goals.TotalSaved))
	for _, gp := range goals.Goals {
		fmt.Fprintf(&b, "%s %s: %s (%d days left)\n",
			cli.GoalIcon, gp.Goal.Name, cli.FormatPercent(gp.ProgressPct), gp.DaysRemaining)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTrendsCard(trends []metrics.MonthTrend) string {
	var b strings.Builder
	for _, trend := range trends {
		change := cli.SubtleStyle.Render("n/a")
		if trend.ChangePct != nil {
			change = cli.FormatPercent(*trend.ChangePct)
			if *trend.ChangePct > 0 {
				change = cli.WarningStyle.Render("+" + change)
			} else {
				change = cli.SuccessStyle.Render(change)
			}
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", trend.Month, cli.FormatMoney(trend.Total), change)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTopCategoriesCard(top []metrics.TopCategory) string {
	var b strings.Builder
	for i, cat := range top {
		pct := cli.SubtleStyle.Render("no budget")
		if cat.BudgetPct != nil {
			pct = cli.FormatPercent(*cat.BudgetPct) + " of budget"
		}
		fmt.Fprintf(&b, "%d. %s  %s  (%s, %d txns)\n",
			i+1, cat.Name, cli.FormatMoney(cat.Total), pct, cat.TxnCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderInsights(insights []metrics.Insight) string {
	var b strings.Builder
	for _, insight := range insights {
		switch insight.Level {
		case metrics.InsightWarning:
			b.WriteString(cli.FormatWarning(insight.Message))
		case metrics.InsightPraise:
			b.WriteString(cli.FormatSuccess(insight.Message))
		default:
			b.WriteString(cli.FormatInfo(insight.Message))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRecentCard(transactions []model.Transaction) string {
	var b strings.Builder
	for _, txn := range transactions {
		amount := cli.FormatMoney(txn.Amount)
		if txn.Type == model.TransactionTypeIncome {
			amount = cli.SuccessStyle.Render("+" + amount)
		}
		category := txn.CategoryName
		if category == "" {
			category = "(uncategorized)"
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			txn.Date.Format("2006-01-02"), amount, category, txn.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
