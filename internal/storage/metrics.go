package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hollis-b/budgeteer/internal/service"
)

// GetMonthlyBudgetTotals returns the total configured budget across expense
// categories and the total spent on expense transactions in the given month.
func (s *SQLiteStorage) GetMonthlyBudgetTotals(ctx context.Context, month string) (float64, float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateString(month, "month"); err != nil {
		return 0, 0, err
	}

	query := `
		WITH monthly_budget AS (
			SELECT COALESCE(SUM(budget), 0) AS total_budget
			FROM categories
			WHERE type = 'expense'
		),
		monthly_spending AS (
			SELECT COALESCE(SUM(amount), 0) AS total_spent
			FROM transactions
			WHERE type = 'expense'
			AND strftime('%Y-%m', date) = ?
		)
		SELECT total_budget, total_spent
		FROM monthly_budget, monthly_spending`

	var budget, spent float64
	if err := s.db.QueryRowContext(ctx, query, month).Scan(&budget, &spent); err != nil {
		return 0, 0, fmt.Errorf("failed to query budget totals: %w", err)
	}
	return budget, spent, nil
}

// GetCategorySpending returns, for every expense category, the amount spent
// in the given month alongside its budget and alert threshold. Categories
// with no transactions in the month appear with zero spend; transactions
// whose category was deleted are excluded (they have no category to roll
// up under).
func (s *SQLiteStorage) GetCategorySpending(ctx context.Context, month string) ([]service.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(month, "month"); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.name, c.budget, c.alert_threshold,
			COALESCE(SUM(t.amount), 0) AS spent,
			COUNT(t.id) AS txn_count
		FROM categories c
		LEFT JOIN transactions t
			ON c.id = t.category_id
			AND t.type = 'expense'
			AND strftime('%Y-%m', t.date) = ?
		WHERE c.type = 'expense'
		GROUP BY c.id
		ORDER BY spent DESC, c.name`

	rows, err := s.db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query category spending: %w", err)
	}
	defer rows.Close()

	var spending []service.CategorySpend
	for rows.Next() {
		var cs service.CategorySpend
		if err := rows.Scan(&cs.CategoryID, &cs.Name, &cs.Budget,
			&cs.AlertThreshold, &cs.Spent, &cs.TxnCount); err != nil {
			return nil, fmt.Errorf("failed to scan category spending: %w", err)
		}
		spending = append(spending, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category spending: %w", err)
	}
	return spending, nil
}

// GetNeedsMonthlyProjection returns the summed monthly expense projection
// across need categories: each category contributes its average monthly
// spend since the given date when it has any transactions in the window,
// else its configured budget. The budget is a pure fallback, never blended
// with the historical average.
func (s *SQLiteStorage) GetNeedsMonthlyProjection(ctx context.Context, since time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `
		WITH monthly_expenses AS (
			SELECT category_id, AVG(monthly_total) AS avg_monthly_expense
			FROM (
				SELECT t.category_id,
					strftime('%Y-%m', t.date) AS month,
					SUM(t.amount) AS monthly_total
				FROM transactions t
				JOIN categories c ON t.category_id = c.id
				WHERE t.type = 'expense'
				AND c.is_need = 1
				AND t.date >= ?
				GROUP BY t.category_id, month
			)
			GROUP BY category_id
		)
		SELECT COALESCE(ROUND(SUM(COALESCE(me.avg_monthly_expense, c.budget)), 2), 0)
		FROM categories c
		LEFT JOIN monthly_expenses me ON me.category_id = c.id
		WHERE c.type = 'expense'
		AND c.is_need = 1`

	var projection float64
	if err := s.db.QueryRowContext(ctx, query, since.Format(dateLayout)).Scan(&projection); err != nil {
		return 0, fmt.Errorf("failed to query needs projection: %w", err)
	}
	return projection, nil
}

// GetMonthlyIncome returns this month's income from income entries: entries
// dated in the month, unioned with recurring-monthly entries regardless of
// their recorded date. This is a single filter over rows, so an entry
// matching both conditions is counted once.
func (s *SQLiteStorage) GetMonthlyIncome(ctx context.Context, month string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(month, "month"); err != nil {
		return 0, err
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM income
		WHERE strftime('%Y-%m', date) = ?
		OR (is_recurring = 1 AND frequency = 'monthly')`

	var total float64
	if err := s.db.QueryRowContext(ctx, query, month).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query monthly income: %w", err)
	}
	return total, nil
}

// GetRecurringMonthlyIncome returns the total of recurring-monthly income entries.
func (s *SQLiteStorage) GetRecurringMonthlyIncome(ctx context.Context) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM income
		WHERE is_recurring = 1 AND frequency = 'monthly'`

	var total float64
	if err := s.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query recurring income: %w", err)
	}
	return total, nil
}

// GetIncomeTransactionTotal returns the month's total over income-kind
// ledger transactions. Income entries and income transactions are separate
// records; this figure lets callers see both.
func (s *SQLiteStorage) GetIncomeTransactionTotal(ctx context.Context, month string) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(month, "month"); err != nil {
		return 0, err
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'income'
		AND strftime('%Y-%m', date) = ?`

	var total float64
	if err := s.db.QueryRowContext(ctx, query, month).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to query income transactions: %w", err)
	}
	return total, nil
}

// GetRecentMonthlyTotals returns the most recent months' total transaction
// amounts, newest first, each row carrying the previous month's total
// (LAG over the returned window; nil for the oldest row).
func (s *SQLiteStorage) GetRecentMonthlyTotals(ctx context.Context, limit int) ([]service.MonthlyTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	query := `
		WITH monthly_totals AS (
			SELECT strftime('%Y-%m', date) AS month,
				SUM(amount) AS total
			FROM transactions
			GROUP BY month
			ORDER BY month DESC
			LIMIT ?
		)
		SELECT month, total,
			LAG(total) OVER (ORDER BY month) AS prev_total
		FROM monthly_totals
		ORDER BY month DESC`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []service.MonthlyTotal
	for rows.Next() {
		var mt service.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Total, &mt.PrevTotal); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}
	return totals, nil
}

// GetTopCategories returns the month's expense categories with spending,
// ranked by total spend. Only categories with at least one transaction in
// the month appear.
func (s *SQLiteStorage) GetTopCategories(ctx context.Context, month string, limit int) ([]service.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(month, "month"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT c.id, c.name, c.budget, c.alert_threshold,
			SUM(t.amount) AS total,
			COUNT(t.id) AS txn_count
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.type = 'expense'
		AND strftime('%Y-%m', t.date) = ?
		GROUP BY c.id
		ORDER BY total DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, month, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer rows.Close()

	var top []service.CategorySpend
	for rows.Next() {
		var cs service.CategorySpend
		if err := rows.Scan(&cs.CategoryID, &cs.Name, &cs.Budget,
			&cs.AlertThreshold, &cs.Spent, &cs.TxnCount); err != nil {
			return nil, fmt.Errorf("failed to scan top category: %w", err)
		}
		top = append(top, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top categories: %w", err)
	}
	return top, nil
}
