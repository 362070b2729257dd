// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/hollis-b/budgeteer/internal/model"
)

// CategoryFields carries the user-editable fields of a category. Create and
// Update take the same fields but are distinct operations; the store never
// infers intent from the shape of the value.
type CategoryFields struct {
	Name           string
	Type           model.CategoryType
	MonthlyBudget  float64
	AlertThreshold int
	IsNeed         bool
}

// IncomeFields carries the user-editable fields of an income entry.
// NextDate is computed by the caller from Frequency at create/update time.
type IncomeFields struct {
	Date        time.Time
	NextDate    *time.Time
	Source      string
	Frequency   model.Frequency
	Amount      float64
	IsRecurring bool
}

// GoalFields carries the user-editable fields of a savings goal.
type GoalFields struct {
	TargetDate          time.Time
	Name                string
	TargetAmount        float64
	CurrentAmount       float64
	MonthlyContribution float64
}

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType // empty matches both kinds
	Limit     int
}

// CategorySpend is one expense category's budget position for a month.
type CategorySpend struct {
	Name           string
	CategoryID     int
	Budget         float64
	Spent          float64
	AlertThreshold int
	TxnCount       int
}

// MonthlyTotal is a month-bucketed transaction total with the previous
// month's total carried alongside (LAG-style), nil for the oldest row.
type MonthlyTotal struct {
	PrevTotal *float64
	Month     string // YYYY-MM
	Total     float64
}

// DailyTotal is one day's summed expense amount.
type DailyTotal struct {
	Date  time.Time
	Total float64
}

// CategoryTotal is a category's summed expense amount over a date range.
type CategoryTotal struct {
	Name  string
	Total float64
}

// MonthComparison is one month's income and expense totals.
type MonthComparison struct {
	Month   string // YYYY-MM
	Income  float64
	Expense float64
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	CreateCategory(ctx context.Context, fields CategoryFields) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int, fields CategoryFields) error
	DeleteCategory(ctx context.Context, id int) error

	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error

	// Income entry operations
	CreateIncome(ctx context.Context, fields IncomeFields) (*model.IncomeEntry, error)
	UpdateIncome(ctx context.Context, id int, fields IncomeFields) error
	DeleteIncome(ctx context.Context, id int) error
	GetIncomeEntries(ctx context.Context) ([]model.IncomeEntry, error)
	GetIncomeSources(ctx context.Context) ([]string, error)

	// Savings goal operations
	CreateGoal(ctx context.Context, fields GoalFields) (*model.SavingsGoal, error)
	UpdateGoal(ctx context.Context, id int, fields GoalFields) error
	DeleteGoal(ctx context.Context, id int) error
	GetGoals(ctx context.Context) ([]model.SavingsGoal, error)
	GetActiveGoals(ctx context.Context, today time.Time) ([]model.SavingsGoal, error)

	// Emergency fund operations
	GetEmergencyFund(ctx context.Context) (*model.EmergencyFund, error)
	UpdateEmergencyFundTarget(ctx context.Context, target float64) error
	SetEmergencyFund(ctx context.Context, current, monthlyContribution float64) error

	// Derived-metric queries consumed by the metrics engine
	GetMonthlyBudgetTotals(ctx context.Context, month string) (budget, spent float64, err error)
	GetCategorySpending(ctx context.Context, month string) ([]CategorySpend, error)
	GetNeedsMonthlyProjection(ctx context.Context, since time.Time) (float64, error)
	GetMonthlyIncome(ctx context.Context, month string) (float64, error)
	GetRecurringMonthlyIncome(ctx context.Context) (float64, error)
	GetIncomeTransactionTotal(ctx context.Context, month string) (float64, error)
	GetRecentMonthlyTotals(ctx context.Context, limit int) ([]MonthlyTotal, error)
	GetTopCategories(ctx context.Context, month string, limit int) ([]CategorySpend, error)

	// Date-range report queries
	GetDailySpending(ctx context.Context, start, end time.Time) ([]DailyTotal, error)
	GetCategoryDistribution(ctx context.Context, start, end time.Time, limit int) ([]CategoryTotal, error)
	GetMonthlyComparison(ctx context.Context, start, end time.Time) ([]MonthComparison, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
