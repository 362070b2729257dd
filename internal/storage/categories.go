package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, budget, alert_threshold, is_need, created_at
		FROM categories
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.MonthlyBudget,
			&cat.AlertThreshold, &cat.IsNeed, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a category by its name, or nil when absent.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, budget, alert_threshold, is_need, created_at
		FROM categories
		WHERE name = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Type, &cat.MonthlyBudget,
		&cat.AlertThreshold, &cat.IsNeed, &cat.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByID returns a category by its ID, or nil when absent.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, budget, alert_threshold, is_need, created_at
		FROM categories
		WHERE id = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Type, &cat.MonthlyBudget,
		&cat.AlertThreshold, &cat.IsNeed, &cat.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory creates a new category from the given fields.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, fields service.CategoryFields) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategoryFields(fields); err != nil {
		return nil, err
	}

	existing, err := s.GetCategoryByName(ctx, fields.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, fields.Name)
	}

	query := `
		INSERT INTO categories (name, type, budget, alert_threshold, is_need)
		VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		fields.Name, fields.Type, fields.MonthlyBudget, fields.AlertThreshold, fields.IsNeed)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	slog.Info("created category", "name", fields.Name, "id", id, "type", fields.Type)
	return s.GetCategoryByID(ctx, int(id))
}

// UpdateCategory updates an existing category. The ID is explicit; the
// store never infers create-versus-update from the value's shape.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int, fields service.CategoryFields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategoryFields(fields); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET name = ?, type = ?, budget = ?, alert_threshold = ?, is_need = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		fields.Name, fields.Type, fields.MonthlyBudget, fields.AlertThreshold, fields.IsNeed, id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Info("updated category", "id", id, "name", fields.Name)
	return nil
}

// DeleteCategory removes a category. Historical transactions survive with
// their category reference cleared (ON DELETE SET NULL).
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}

	slog.Info("deleted category", "id", id)
	return nil
}
