package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// CreateIncome inserts a new income entry.
func (s *SQLiteStorage) CreateIncome(ctx context.Context, fields service.IncomeFields) (*model.IncomeEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateIncomeFields(fields); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO income (date, amount, source, is_recurring, frequency, next_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		fields.Date.Format(dateLayout), fields.Amount, fields.Source,
		fields.IsRecurring, frequencyValue(fields), nextDateValue(fields))
	if err != nil {
		return nil, fmt.Errorf("failed to create income entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get income entry ID: %w", err)
	}

	entry := &model.IncomeEntry{
		ID:          int(id),
		Date:        fields.Date,
		Amount:      fields.Amount,
		Source:      fields.Source,
		IsRecurring: fields.IsRecurring,
		Frequency:   fields.Frequency,
		NextDate:    fields.NextDate,
	}

	slog.Info("created income entry", "id", id, "source", fields.Source, "recurring", fields.IsRecurring)
	return entry, nil
}

// UpdateIncome updates an existing income entry by explicit ID.
func (s *SQLiteStorage) UpdateIncome(ctx context.Context, id int, fields service.IncomeFields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateIncomeFields(fields); err != nil {
		return err
	}

	query := `
		UPDATE income
		SET date = ?, amount = ?, source = ?, is_recurring = ?, frequency = ?, next_date = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		fields.Date.Format(dateLayout), fields.Amount, fields.Source,
		fields.IsRecurring, frequencyValue(fields), nextDateValue(fields), id)
	if err != nil {
		return fmt.Errorf("failed to update income entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: income entry %d", common.ErrNotFound, id)
	}

	slog.Info("updated income entry", "id", id, "source", fields.Source)
	return nil
}

// DeleteIncome removes an income entry by ID.
func (s *SQLiteStorage) DeleteIncome(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM income WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: income entry %d", common.ErrNotFound, id)
	}

	slog.Info("deleted income entry", "id", id)
	return nil
}

// GetIncomeEntries returns all income entries, newest first.
func (s *SQLiteStorage) GetIncomeEntries(ctx context.Context) ([]model.IncomeEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, date, amount, source, is_recurring, frequency, next_date, created_at
		FROM income
		ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query income entries: %w", err)
	}
	defer rows.Close()

	var entries []model.IncomeEntry
	for rows.Next() {
		var (
			entry    model.IncomeEntry
			dateStr  string
			freq     *string
			nextDate *string
		)
		if err := rows.Scan(&entry.ID, &dateStr, &entry.Amount, &entry.Source,
			&entry.IsRecurring, &freq, &nextDate, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income entry: %w", err)
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse income date %q: %w", dateStr, err)
		}
		entry.Date = date
		if freq != nil {
			entry.Frequency = model.Frequency(*freq)
		}
		if nextDate != nil {
			due, err := time.Parse(dateLayout, *nextDate)
			if err != nil {
				return nil, fmt.Errorf("failed to parse next due date %q: %w", *nextDate, err)
			}
			entry.NextDate = &due
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income entries: %w", err)
	}
	return entries, nil
}

// GetIncomeSources returns the distinct income sources recorded so far,
// merged with income-kind category names for form suggestions.
func (s *SQLiteStorage) GetIncomeSources(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT name FROM categories WHERE type = 'income'
		UNION
		SELECT DISTINCT source FROM income
		ORDER BY 1`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income sources: %w", err)
	}
	return sources, nil
}

// frequencyValue maps the frequency field to its column value: NULL for
// one-time entries, matching the CHECK constraint on the frequency column.
func frequencyValue(fields service.IncomeFields) any {
	if !fields.IsRecurring {
		return nil
	}
	return string(fields.Frequency)
}

// nextDateValue maps the next due date to its column value.
func nextDateValue(fields service.IncomeFields) any {
	if fields.NextDate == nil {
		return nil
	}
	return fields.NextDate.Format(dateLayout)
}
