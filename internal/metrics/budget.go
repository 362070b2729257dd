package metrics

import (
	"context"
)

// BudgetOverview is the current month's budget position across all expense
// categories. Remaining may be negative; over-budget is a reportable state,
// not an error.
type BudgetOverview struct {
	TotalBudget float64
	TotalSpent  float64
	Remaining   float64
}

// CategoryBudget is one expense category's budget position for the current
// month. UtilizationValid is false when the category has no budget, in
// which case UtilizationPct is meaningless and should render as N/A.
type CategoryBudget struct {
	Name             string
	Budget           float64
	Spent            float64
	UtilizationPct   float64
	TxnCount         int
	AlertThreshold   int
	UtilizationValid bool
	Alerting         bool
}

// BudgetOverview computes the month's total budget, spend, and remainder.
func (e *Engine) BudgetOverview(ctx context.Context) (BudgetOverview, error) {
	budget, spent, err := e.store.GetMonthlyBudgetTotals(ctx, e.currentMonth())
	if err != nil {
		return BudgetOverview{}, err
	}
	return BudgetOverview{
		TotalBudget: budget,
		TotalSpent:  spent,
		Remaining:   budget - spent,
	}, nil
}

// CategoryBudgets computes the per-category budget positions for the
// current month, highest spend first.
func (e *Engine) CategoryBudgets(ctx context.Context) ([]CategoryBudget, error) {
	spending, err := e.store.GetCategorySpending(ctx, e.currentMonth())
	if err != nil {
		return nil, err
	}

	budgets := make([]CategoryBudget, 0, len(spending))
	for _, cs := range spending {
		cb := CategoryBudget{
			Name:           cs.Name,
			Budget:         cs.Budget,
			Spent:          cs.Spent,
			TxnCount:       cs.TxnCount,
			AlertThreshold: cs.AlertThreshold,
		}
		if cs.Budget > 0 {
			cb.UtilizationValid = true
			cb.UtilizationPct = cs.Spent / cs.Budget * 100
			cb.Alerting = cs.Spent >= cs.Budget*float64(cs.AlertThreshold)/100
		}
		budgets = append(budgets, cb)
	}
	return budgets, nil
}

// AlertingCategories returns the categories currently at or past their
// alert threshold. This is the hourly sweep's data source.
func (e *Engine) AlertingCategories(ctx context.Context) ([]CategoryBudget, error) {
	budgets, err := e.CategoryBudgets(ctx)
	if err != nil {
		return nil, err
	}

	var alerting []CategoryBudget
	for _, cb := range budgets {
		if cb.Alerting {
			alerting = append(alerting, cb)
		}
	}
	return alerting, nil
}
