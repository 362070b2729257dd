package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// CreateGoal inserts a new savings goal.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, fields service.GoalFields) (*model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateGoalFields(fields); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO savings_goals (name, target_amount, current_amount, target_date, monthly_contribution)
		VALUES (?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		fields.Name, fields.TargetAmount, fields.CurrentAmount,
		fields.TargetDate.Format(dateLayout), fields.MonthlyContribution)
	if err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get savings goal ID: %w", err)
	}

	goal := &model.SavingsGoal{
		ID:                  int(id),
		Name:                fields.Name,
		TargetAmount:        fields.TargetAmount,
		CurrentAmount:       fields.CurrentAmount,
		TargetDate:          fields.TargetDate,
		MonthlyContribution: fields.MonthlyContribution,
	}

	slog.Info("created savings goal", "id", id, "name", fields.Name, "target", fields.TargetAmount)
	return goal, nil
}

// UpdateGoal updates an existing savings goal by explicit ID.
func (s *SQLiteStorage) UpdateGoal(ctx context.Context, id int, fields service.GoalFields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoalFields(fields); err != nil {
		return err
	}

	query := `
		UPDATE savings_goals
		SET name = ?, target_amount = ?, current_amount = ?, target_date = ?, monthly_contribution = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		fields.Name, fields.TargetAmount, fields.CurrentAmount,
		fields.TargetDate.Format(dateLayout), fields.MonthlyContribution, id)
	if err != nil {
		return fmt.Errorf("failed to update savings goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: savings goal %d", common.ErrNotFound, id)
	}

	slog.Info("updated savings goal", "id", id, "name", fields.Name)
	return nil
}

// DeleteGoal removes a savings goal by ID.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: savings goal %d", common.ErrNotFound, id)
	}

	slog.Info("deleted savings goal", "id", id)
	return nil
}

// GetGoals returns all savings goals ordered by target date.
func (s *SQLiteStorage) GetGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryGoals(ctx, `
		SELECT id, name, target_amount, current_amount, target_date, monthly_contribution, created_at
		FROM savings_goals
		ORDER BY target_date ASC`)
}

// GetActiveGoals returns goals whose target date has not passed. Overdue
// goals stay in the table but drop out of the active aggregate.
func (s *SQLiteStorage) GetActiveGoals(ctx context.Context, today time.Time) ([]model.SavingsGoal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryGoals(ctx, `
		SELECT id, name, target_amount, current_amount, target_date, monthly_contribution, created_at
		FROM savings_goals
		WHERE target_date >= ?
		ORDER BY target_date ASC`, today.Format(dateLayout))
}

func (s *SQLiteStorage) queryGoals(ctx context.Context, query string, args ...any) ([]model.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer rows.Close()

	goals, err := scanGoals(rows)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func scanGoals(rows *sql.Rows) ([]model.SavingsGoal, error) {
	var goals []model.SavingsGoal
	for rows.Next() {
		var (
			goal    model.SavingsGoal
			dateStr string
		)
		if err := rows.Scan(&goal.ID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
			&dateStr, &goal.MonthlyContribution, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}

		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse goal target date %q: %w", dateStr, err)
		}
		goal.TargetDate = date
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings goals: %w", err)
	}
	return goals, nil
}
