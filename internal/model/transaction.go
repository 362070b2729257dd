// Package model defines the domain types for the budgeteer ledger.
package model

import "time"

// TransactionType indicates the direction of a transaction.
type TransactionType string

const (
	// TransactionTypeExpense represents money going out.
	TransactionTypeExpense TransactionType = "expense"
	// TransactionTypeIncome represents money coming in.
	TransactionTypeIncome TransactionType = "income"
)

// Valid reports whether the transaction type is one of the known values.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Transaction represents a single ledger entry. CategoryID is a weak
// reference: deleting a category clears it rather than cascading, so
// historical transactions survive with an unset category.
type Transaction struct {
	Date         time.Time
	CreatedAt    time.Time
	Description  string
	CategoryName string // joined at query time; empty when uncategorized
	Type         TransactionType
	CategoryID   *int
	ID           int
	Amount       float64
}
