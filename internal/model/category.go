package model

import "time"

// CategoryType indicates whether a category tracks expenses or income.
type CategoryType string

const (
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
)

// Valid reports whether the category type is one of the known values.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category represents a budget category. Names are unique across both
// category types. MonthlyBudget and AlertThreshold only apply to expense
// categories; IsNeed marks essential spending used by the emergency-fund
// projection.
type Category struct {
	CreatedAt      time.Time
	Name           string
	Type           CategoryType
	ID             int
	MonthlyBudget  float64
	AlertThreshold int
	IsNeed         bool
}

// DefaultAlertThreshold is the percent-of-budget at which a category
// starts alerting unless configured otherwise.
const DefaultAlertThreshold = 80
