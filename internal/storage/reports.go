package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hollis-b/budgeteer/internal/service"
)

// GetDailySpending returns per-day expense totals over [start, end]. All
// expense transactions count, including those whose category was deleted.
func (s *SQLiteStorage) GetDailySpending(ctx context.Context, start, end time.Time) ([]service.DailyTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			start.Format(dateLayout), end.Format(dateLayout))
	}

	query := `
		SELECT date, SUM(amount) AS daily_total
		FROM transactions
		WHERE type = 'expense'
		AND date BETWEEN ? AND ?
		GROUP BY date
		ORDER BY date`

	rows, err := s.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily spending: %w", err)
	}
	defer rows.Close()

	var totals []service.DailyTotal
	for rows.Next() {
		var (
			dateStr string
			total   float64
		)
		if err := rows.Scan(&dateStr, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", dateStr, err)
		}
		totals = append(totals, service.DailyTotal{Date: date, Total: total})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily spending: %w", err)
	}
	return totals, nil
}

// GetCategoryDistribution returns per-category expense totals over
// [start, end], largest first. limit <= 0 returns all categories.
func (s *SQLiteStorage) GetCategoryDistribution(ctx context.Context, start, end time.Time, limit int) ([]service.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			start.Format(dateLayout), end.Format(dateLayout))
	}

	query := `
		SELECT c.name, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.type = 'expense'
		AND t.date BETWEEN ? AND ?
		GROUP BY c.name
		ORDER BY total DESC`

	args := []any{start.Format(dateLayout), end.Format(dateLayout)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category distribution: %w", err)
	}
	defer rows.Close()

	var totals []service.CategoryTotal
	for rows.Next() {
		var ct service.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category distribution: %w", err)
	}
	return totals, nil
}

// GetMonthlyComparison returns per-month income and expense transaction
// totals over [start, end] in chronological order.
func (s *SQLiteStorage) GetMonthlyComparison(ctx context.Context, start, end time.Time) ([]service.MonthComparison, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			start.Format(dateLayout), end.Format(dateLayout))
	}

	query := `
		WITH monthly_totals AS (
			SELECT strftime('%Y-%m', date) AS month,
				type,
				SUM(amount) AS total
			FROM transactions
			WHERE date BETWEEN ? AND ?
			GROUP BY strftime('%Y-%m', date), type
		)
		SELECT month,
			MAX(CASE WHEN type = 'income' THEN total ELSE 0 END) AS income,
			MAX(CASE WHEN type = 'expense' THEN total ELSE 0 END) AS expense
		FROM monthly_totals
		GROUP BY month
		ORDER BY month`

	rows, err := s.db.QueryContext(ctx, query, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly comparison: %w", err)
	}
	defer rows.Close()

	var months []service.MonthComparison
	for rows.Next() {
		var mc service.MonthComparison
		if err := rows.Scan(&mc.Month, &mc.Income, &mc.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan monthly comparison: %w", err)
		}
		months = append(months, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly comparison: %w", err)
	}
	return months, nil
}
