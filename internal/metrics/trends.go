package metrics

import (
	"context"
	"fmt"
)

// trendMonths is how many recent months the month-over-month trend covers.
const trendMonths = 3

// MonthTrend is one month's total transaction amount with the change
// against the previous month. ChangePct is nil for the oldest returned
// month (no predecessor) and when the previous month's total is zero.
type MonthTrend struct {
	ChangePct *float64
	Month     string // YYYY-MM
	Total     float64
}

// TopCategory is one of the month's highest-spend expense categories.
// BudgetPct is nil when the category has no budget configured.
type TopCategory struct {
	BudgetPct *float64
	Name      string
	Total     float64
	TxnCount  int
}

// InsightLevel classifies an insight message.
type InsightLevel string

const (
	// InsightWarning flags a budget or savings problem.
	InsightWarning InsightLevel = "warning"
	// InsightInfo flags notable but benign usage.
	InsightInfo InsightLevel = "info"
	// InsightPraise acknowledges a healthy savings rate.
	InsightPraise InsightLevel = "praise"
)

// Insight is an advisory observation about the current month. Delivery
// (notification, styling, localization) is a presentation concern.
type Insight struct {
	Level   InsightLevel
	Message string
}

// SpendingTrends returns the most recent months' totals with
// month-over-month change, newest first.
func (e *Engine) SpendingTrends(ctx context.Context) ([]MonthTrend, error) {
	totals, err := e.store.GetRecentMonthlyTotals(ctx, trendMonths)
	if err != nil {
		return nil, err
	}

	trends := make([]MonthTrend, 0, len(totals))
	for _, mt := range totals {
		trend := MonthTrend{
			Month: mt.Month,
			Total: mt.Total,
		}
		if mt.PrevTotal != nil && *mt.PrevTotal != 0 {
			change := (mt.Total - *mt.PrevTotal) / *mt.PrevTotal * 100
			trend.ChangePct = &change
		}
		trends = append(trends, trend)
	}
	return trends, nil
}

// TopCategories returns the current month's top-5 expense categories by
// total spend, annotated with transaction count and share of budget.
func (e *Engine) TopCategories(ctx context.Context) ([]TopCategory, error) {
	spending, err := e.store.GetTopCategories(ctx, e.currentMonth(), 5)
	if err != nil {
		return nil, err
	}

	top := make([]TopCategory, 0, len(spending))
	for _, cs := range spending {
		tc := TopCategory{
			Name:     cs.Name,
			Total:    cs.Spent,
			TxnCount: cs.TxnCount,
		}
		if cs.Budget > 0 {
			pct := cs.Spent / cs.Budget * 100
			tc.BudgetPct = &pct
		}
		top = append(top, tc)
	}
	return top, nil
}

// Insights generates the month's advisory observations: category
// utilization outliers and the derived savings rate. Categories without a
// budget are skipped; their utilization is undefined.
func (e *Engine) Insights(ctx context.Context) ([]Insight, error) {
	budgets, err := e.CategoryBudgets(ctx)
	if err != nil {
		return nil, err
	}

	var insights []Insight
	for _, cb := range budgets {
		if !cb.UtilizationValid {
			continue
		}
		switch {
		case cb.UtilizationPct > 90:
			insights = append(insights, Insight{
				Level:   InsightWarning,
				Message: fmt.Sprintf("%s is at %.1f%% of budget", cb.Name, cb.UtilizationPct),
			})
		case cb.UtilizationPct < 20:
			insights = append(insights, Insight{
				Level:   InsightInfo,
				Message: fmt.Sprintf("%s is only at %.1f%% of budget", cb.Name, cb.UtilizationPct),
			})
		}
	}

	income, err := e.MonthlyIncome(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := e.BudgetOverview(ctx)
	if err != nil {
		return nil, err
	}

	if income.Total > 0 {
		savingsRate := (income.Total - overview.TotalSpent) / income.Total * 100
		switch {
		case savingsRate < 20:
			insights = append(insights, Insight{
				Level:   InsightWarning,
				Message: fmt.Sprintf("Low savings rate: %.1f%%", savingsRate),
			})
		case savingsRate > 40:
			insights = append(insights, Insight{
				Level:   InsightPraise,
				Message: fmt.Sprintf("Great savings rate: %.1f%%", savingsRate),
			})
		}
	}

	return insights, nil
}
