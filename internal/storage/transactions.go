package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// dateLayout is the calendar-day format used for date columns. Dates are
// stored as TEXT so SQLite's strftime month bucketing works directly.
const dateLayout = "2006-01-02"

// SaveTransaction inserts a single transaction and returns it with its
// assigned ID.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (date, category_id, amount, description, type)
		VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		txn.Date.Format(dateLayout), txn.CategoryID, txn.Amount, txn.Description, txn.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	saved := *txn
	saved.ID = int(id)
	slog.Debug("saved transaction", "id", id, "amount", txn.Amount, "type", txn.Type)
	return &saved, nil
}

// SaveTransactions inserts a batch of transactions atomically. A failure on
// any row rolls back the whole batch; no partial state is persisted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (date, category_id, amount, description, type)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range txns {
		t := &txns[i]
		if _, err := stmt.ExecContext(ctx,
			t.Date.Format(dateLayout), t.CategoryID, t.Amount, t.Description, t.Type); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert transaction at index %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	slog.Info("saved transaction batch", "count", len(txns))
	return nil
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidDateRange,
			filter.StartDate.Format(dateLayout), filter.EndDate.Format(dateLayout))
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.date, t.category_id, c.name, t.amount, t.description, t.type, t.created_at
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE 1=1`)

	var args []any
	if filter.StartDate != nil {
		sb.WriteString(" AND t.date >= ?")
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND t.date <= ?")
		args = append(args, filter.EndDate.Format(dateLayout))
	}
	if filter.Type != "" {
		sb.WriteString(" AND t.type = ?")
		args = append(args, filter.Type)
	}
	sb.WriteString(" ORDER BY t.date DESC, t.id DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetRecentTransactions returns the most recent transactions for the dashboard.
func (s *SQLiteStorage) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{Limit: limit})
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var txns []model.Transaction
	for rows.Next() {
		var (
			txn      model.Transaction
			dateStr  string
			catName  *string
			descText *string
		)
		if err := rows.Scan(&txn.ID, &dateStr, &txn.CategoryID, &catName,
			&txn.Amount, &descText, &txn.Type, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction date %q: %w", dateStr, err)
		}
		txn.Date = date
		if catName != nil {
			txn.CategoryName = *catName
		}
		if descText != nil {
			txn.Description = *descText
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}
