package metrics

import (
	"context"
)

// MonthlyIncome is the current month's income position, computed from
// income entries. Total counts entries dated in the month together with
// recurring-monthly entries regardless of their recorded date; an entry
// satisfying both conditions is one row and counts once.
//
// TransactionIncome is the month's total over income-kind ledger
// transactions, a separate record from income entries. The two figures are
// deliberately surfaced side by side so the overlap is visible rather than
// silently dropped.
type MonthlyIncome struct {
	Total             float64
	RecurringTotal    float64
	RecurringSharePct float64
	TransactionIncome float64
}

// MonthlyIncome computes the month's income summary.
func (e *Engine) MonthlyIncome(ctx context.Context) (MonthlyIncome, error) {
	month := e.currentMonth()

	total, err := e.store.GetMonthlyIncome(ctx, month)
	if err != nil {
		return MonthlyIncome{}, err
	}

	recurring, err := e.store.GetRecurringMonthlyIncome(ctx)
	if err != nil {
		return MonthlyIncome{}, err
	}

	fromTxns, err := e.store.GetIncomeTransactionTotal(ctx, month)
	if err != nil {
		return MonthlyIncome{}, err
	}

	income := MonthlyIncome{
		Total:             total,
		RecurringTotal:    recurring,
		TransactionIncome: fromTxns,
	}
	if total > 0 {
		income.RecurringSharePct = recurring / total * 100
	}
	return income, nil
}
