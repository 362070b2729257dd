// Package storage provides the data persistence layer for the budgeteer application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction before it reaches the store.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing transaction date", common.ErrInvalidDate)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: got %.2f", common.ErrInvalidAmount, txn.Amount)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("invalid transaction type: %q", txn.Type)
	}
	return nil
}

// validateCategoryFields validates user-supplied category fields.
func validateCategoryFields(fields service.CategoryFields) error {
	if err := validateString(fields.Name, "name"); err != nil {
		return err
	}
	if !fields.Type.Valid() {
		return fmt.Errorf("invalid category type: %q", fields.Type)
	}
	if fields.MonthlyBudget < 0 {
		return fmt.Errorf("%w: budget cannot be negative", common.ErrInvalidAmount)
	}
	if fields.AlertThreshold < 0 || fields.AlertThreshold > 100 {
		return fmt.Errorf("alert threshold must be between 0 and 100, got %d", fields.AlertThreshold)
	}
	return nil
}

// validateIncomeFields validates user-supplied income entry fields.
func validateIncomeFields(fields service.IncomeFields) error {
	if err := validateString(fields.Source, "source"); err != nil {
		return err
	}
	if fields.Date.IsZero() {
		return fmt.Errorf("%w: missing income date", common.ErrInvalidDate)
	}
	if fields.Amount <= 0 {
		return fmt.Errorf("%w: got %.2f", common.ErrInvalidAmount, fields.Amount)
	}
	if fields.IsRecurring && !fields.Frequency.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidFrequency, fields.Frequency)
	}
	return nil
}

// validateGoalFields validates user-supplied savings goal fields.
func validateGoalFields(fields service.GoalFields) error {
	if err := validateString(fields.Name, "name"); err != nil {
		return err
	}
	if fields.TargetAmount <= 0 {
		return fmt.Errorf("%w: target amount must be positive", common.ErrInvalidAmount)
	}
	if fields.CurrentAmount < 0 {
		return fmt.Errorf("%w: current amount cannot be negative", common.ErrInvalidAmount)
	}
	if fields.MonthlyContribution < 0 {
		return fmt.Errorf("%w: monthly contribution cannot be negative", common.ErrInvalidAmount)
	}
	if fields.TargetDate.IsZero() {
		return fmt.Errorf("%w: missing target date", common.ErrInvalidDate)
	}
	return nil
}
