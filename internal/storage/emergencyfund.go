package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hollis-b/budgeteer/internal/model"
)

// GetEmergencyFund returns the singleton emergency fund record.
func (s *SQLiteStorage) GetEmergencyFund(ctx context.Context) (*model.EmergencyFund, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT target_amount, current_amount, monthly_contribution, last_updated
		FROM emergency_fund
		WHERE id = 1`

	var fund model.EmergencyFund
	err := s.db.QueryRowContext(ctx, query).Scan(
		&fund.TargetAmount, &fund.CurrentAmount, &fund.MonthlyContribution, &fund.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency fund: %w", err)
	}

	return &fund, nil
}

// UpdateEmergencyFundTarget persists the derived target amount. The target
// is recomputed from the needs projection on each dashboard load, so this
// overwrite is expected and always wins over the stored value.
func (s *SQLiteStorage) UpdateEmergencyFundTarget(ctx context.Context, target float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := `
		UPDATE emergency_fund
		SET target_amount = ?, last_updated = CURRENT_TIMESTAMP
		WHERE id = 1`

	if _, err := s.db.ExecContext(ctx, query, target); err != nil {
		return fmt.Errorf("failed to update emergency fund target: %w", err)
	}

	slog.Debug("updated emergency fund target", "target", target)
	return nil
}

// SetEmergencyFund updates the user-controlled fields of the fund.
func (s *SQLiteStorage) SetEmergencyFund(ctx context.Context, current, monthlyContribution float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if current < 0 || monthlyContribution < 0 {
		return fmt.Errorf("emergency fund amounts cannot be negative")
	}

	query := `
		UPDATE emergency_fund
		SET current_amount = ?, monthly_contribution = ?, last_updated = CURRENT_TIMESTAMP
		WHERE id = 1`

	if _, err := s.db.ExecContext(ctx, query, current, monthlyContribution); err != nil {
		return fmt.Errorf("failed to set emergency fund: %w", err)
	}

	slog.Info("set emergency fund", "current", current, "monthly_contribution", monthlyContribution)
	return nil
}
