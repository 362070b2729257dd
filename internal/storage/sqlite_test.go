package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hollis-b/budgeteer/internal/common"
	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustCategoryID(t *testing.T, store *SQLiteStorage, name string) int {
	t.Helper()
	cat, err := store.GetCategoryByName(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to look up category %q: %v", name, err)
	}
	if cat == nil {
		t.Fatalf("Category %q not found", name)
	}
	return cat.ID
}

func mustSaveExpense(t *testing.T, store *SQLiteStorage, categoryID int, date time.Time, amount float64) *model.Transaction {
	t.Helper()
	txn := &model.Transaction{
		Date:       date,
		CategoryID: &categoryID,
		Amount:     amount,
		Type:       model.TransactionTypeExpense,
	}
	saved, err := store.SaveTransaction(context.Background(), txn)
	if err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}
	return saved
}

func TestSaveAndGetTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")

	saved, err := store.SaveTransaction(ctx, &model.Transaction{
		Date:        testDate(2026, time.March, 15),
		CategoryID:  &housingID,
		Amount:      1200.50,
		Description: "March rent",
		Type:        model.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Failed to save transaction: %v", err)
	}
	if saved.ID == 0 {
		t.Error("Saved transaction has no ID")
	}

	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("Got %d transactions, want 1", len(txns))
	}
	got := txns[0]
	if got.Amount != 1200.50 {
		t.Errorf("Amount = %v, want 1200.50", got.Amount)
	}
	if got.CategoryName != "Housing" {
		t.Errorf("CategoryName = %q, want \"Housing\"", got.CategoryName)
	}
	if got.Description != "March rent" {
		t.Errorf("Description = %q, want \"March rent\"", got.Description)
	}
	if !got.Date.Equal(testDate(2026, time.March, 15)) {
		t.Errorf("Date = %v, want 2026-03-15", got.Date)
	}
}

func TestSaveTransactionValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		txn  *model.Transaction
		name string
	}{
		{
			name: "zero amount",
			txn: &model.Transaction{
				Date:   testDate(2026, time.March, 1),
				Amount: 0,
				Type:   model.TransactionTypeExpense,
			},
		},
		{
			name: "negative amount",
			txn: &model.Transaction{
				Date:   testDate(2026, time.March, 1),
				Amount: -10,
				Type:   model.TransactionTypeExpense,
			},
		},
		{
			name: "missing date",
			txn: &model.Transaction{
				Amount: 10,
				Type:   model.TransactionTypeExpense,
			},
		},
		{
			name: "bad type",
			txn: &model.Transaction{
				Date:   testDate(2026, time.March, 1),
				Amount: 10,
				Type:   "transfer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SaveTransaction(ctx, tt.txn); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestSaveTransactionsBatchAtomicity(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	batch := []model.Transaction{
		{Date: testDate(2026, time.March, 1), CategoryID: &housingID, Amount: 100, Type: model.TransactionTypeExpense},
		{Date: testDate(2026, time.March, 2), CategoryID: &housingID, Amount: -5, Type: model.TransactionTypeExpense},
	}

	if err := store.SaveTransactions(ctx, batch); err == nil {
		t.Fatal("Expected batch with invalid row to fail")
	}

	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("Got %d transactions after failed batch, want 0", len(txns))
	}
}

func TestGetTransactionsFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	mustSaveExpense(t, store, housingID, testDate(2026, time.February, 10), 100)
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 10), 200)
	if _, err := store.SaveTransaction(ctx, &model.Transaction{
		Date:   testDate(2026, time.March, 20),
		Amount: 500,
		Type:   model.TransactionTypeIncome,
	}); err != nil {
		t.Fatalf("Failed to save income transaction: %v", err)
	}

	from := testDate(2026, time.March, 1)
	got, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &from})
	if err != nil {
		t.Fatalf("Failed to filter by start date: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Start date filter returned %d rows, want 2", len(got))
	}

	got, err = store.GetTransactions(ctx, service.TransactionFilter{Type: model.TransactionTypeIncome})
	if err != nil {
		t.Fatalf("Failed to filter by type: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Type filter returned %d rows, want 1", len(got))
	}
	if got[0].Amount != 500 {
		t.Errorf("Income amount = %v, want 500", got[0].Amount)
	}

	got, err = store.GetTransactions(ctx, service.TransactionFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Failed to filter with limit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Limit filter returned %d rows, want 1", len(got))
	}
	// Newest first
	if !got[0].Date.Equal(testDate(2026, time.March, 20)) {
		t.Errorf("First row date = %v, want newest (2026-03-20)", got[0].Date)
	}

	to := testDate(2026, time.January, 1)
	if _, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &from, EndDate: &to}); err == nil {
		t.Error("Expected inverted date range to fail")
	}
}

func TestDeleteTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	saved := mustSaveExpense(t, store, housingID, testDate(2026, time.March, 1), 50)

	if err := store.DeleteTransaction(ctx, saved.ID); err != nil {
		t.Fatalf("Failed to delete transaction: %v", err)
	}

	err := store.DeleteTransaction(ctx, saved.ID)
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Second delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryPreservesTransactions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	shoppingID := mustCategoryID(t, store, "Shopping")
	saved := mustSaveExpense(t, store, shoppingID, testDate(2026, time.March, 5), 75)

	if err := store.DeleteCategory(ctx, shoppingID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("Got %d transactions after category delete, want 1", len(txns))
	}
	if txns[0].ID != saved.ID {
		t.Errorf("Transaction ID = %d, want %d", txns[0].ID, saved.ID)
	}
	if txns[0].CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil after category delete", *txns[0].CategoryID)
	}
	if txns[0].CategoryName != "" {
		t.Errorf("CategoryName = %q, want empty after category delete", txns[0].CategoryName)
	}
}

func TestCategoryCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created, err := store.CreateCategory(ctx, service.CategoryFields{
		Name:           "Pets",
		Type:           model.CategoryTypeExpense,
		MonthlyBudget:  1500,
		AlertThreshold: 75,
		IsNeed:         false,
	})
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if created.ID == 0 {
		t.Error("Created category has no ID")
	}
	if created.MonthlyBudget != 1500 {
		t.Errorf("MonthlyBudget = %v, want 1500", created.MonthlyBudget)
	}

	// Duplicate name rejected
	_, err = store.CreateCategory(ctx, service.CategoryFields{
		Name: "Pets", Type: model.CategoryTypeExpense, AlertThreshold: 80,
	})
	if !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Duplicate create error = %v, want ErrDuplicateEntry", err)
	}

	err = store.UpdateCategory(ctx, created.ID, service.CategoryFields{
		Name:           "Pets",
		Type:           model.CategoryTypeExpense,
		MonthlyBudget:  2000,
		AlertThreshold: 90,
		IsNeed:         true,
	})
	if err != nil {
		t.Fatalf("Failed to update category: %v", err)
	}

	got, err := store.GetCategoryByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("Failed to get category: %v", err)
	}
	if got.MonthlyBudget != 2000 || got.AlertThreshold != 90 || !got.IsNeed {
		t.Errorf("Updated category = %+v, want budget 2000, threshold 90, need", got)
	}

	if err := store.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}
	err = store.UpdateCategory(ctx, created.ID, service.CategoryFields{
		Name: "Pets", Type: model.CategoryTypeExpense, AlertThreshold: 80,
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Update after delete error = %v, want ErrNotFound", err)
	}
}

func TestCategoryFieldValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name   string
		fields service.CategoryFields
	}{
		{"empty name", service.CategoryFields{Type: model.CategoryTypeExpense}},
		{"bad type", service.CategoryFields{Name: "X", Type: "transfer"}},
		{"negative budget", service.CategoryFields{Name: "X", Type: model.CategoryTypeExpense, MonthlyBudget: -1}},
		{"threshold over 100", service.CategoryFields{Name: "X", Type: model.CategoryTypeExpense, AlertThreshold: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.CreateCategory(ctx, tt.fields); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestGetCategoryByNameMissing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.GetCategoryByName(context.Background(), "Nonexistent")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Got %+v, want nil for missing category", got)
	}
}

func TestIncomeCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	next := testDate(2026, time.April, 30)
	created, err := store.CreateIncome(ctx, service.IncomeFields{
		Date:        testDate(2026, time.March, 31),
		NextDate:    &next,
		Source:      "Acme Corp",
		Frequency:   model.FrequencyMonthly,
		Amount:      5000,
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("Failed to create income entry: %v", err)
	}
	if created.ID == 0 {
		t.Error("Created income entry has no ID")
	}

	entries, err := store.GetIncomeEntries(ctx)
	if err != nil {
		t.Fatalf("Failed to get income entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Got %d income entries, want 1", len(entries))
	}
	got := entries[0]
	if !got.IsRecurring || got.Frequency != model.FrequencyMonthly {
		t.Errorf("Entry = %+v, want recurring monthly", got)
	}
	if got.NextDate == nil || !got.NextDate.Equal(next) {
		t.Errorf("NextDate = %v, want %v", got.NextDate, next)
	}

	// Update to one-time clears frequency and next date
	err = store.UpdateIncome(ctx, created.ID, service.IncomeFields{
		Date:   testDate(2026, time.March, 31),
		Source: "Acme Corp",
		Amount: 5500,
	})
	if err != nil {
		t.Fatalf("Failed to update income entry: %v", err)
	}
	entries, err = store.GetIncomeEntries(ctx)
	if err != nil {
		t.Fatalf("Failed to get income entries: %v", err)
	}
	if entries[0].IsRecurring {
		t.Error("Entry still recurring after update")
	}
	if entries[0].NextDate != nil {
		t.Errorf("NextDate = %v, want nil after update", entries[0].NextDate)
	}
	if entries[0].Amount != 5500 {
		t.Errorf("Amount = %v, want 5500", entries[0].Amount)
	}

	if err := store.DeleteIncome(ctx, created.ID); err != nil {
		t.Fatalf("Failed to delete income entry: %v", err)
	}
	if err := store.DeleteIncome(ctx, created.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Second delete error = %v, want ErrNotFound", err)
	}
}

func TestIncomeValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Recurring without valid frequency
	_, err := store.CreateIncome(ctx, service.IncomeFields{
		Date:        testDate(2026, time.March, 1),
		Source:      "Acme Corp",
		Amount:      100,
		IsRecurring: true,
	})
	if !errors.Is(err, common.ErrInvalidFrequency) {
		t.Errorf("Error = %v, want ErrInvalidFrequency", err)
	}

	_, err = store.CreateIncome(ctx, service.IncomeFields{
		Date:   testDate(2026, time.March, 1),
		Source: "Acme Corp",
		Amount: 0,
	})
	if !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("Error = %v, want ErrInvalidAmount", err)
	}
}

func TestGetIncomeSources(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.CreateIncome(ctx, service.IncomeFields{
		Date: testDate(2026, time.March, 1), Source: "Acme Corp", Amount: 100,
	}); err != nil {
		t.Fatalf("Failed to create income entry: %v", err)
	}

	sources, err := store.GetIncomeSources(ctx)
	if err != nil {
		t.Fatalf("Failed to get income sources: %v", err)
	}

	want := map[string]bool{"Acme Corp": false, "Salary": false, "Freelance": false}
	for _, source := range sources {
		if _, ok := want[source]; ok {
			want[source] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("Income sources missing %q (got %v)", name, sources)
		}
	}
}

func TestGoalCRUDAndActiveFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	today := testDate(2026, time.June, 15)

	_, err := store.CreateGoal(ctx, service.GoalFields{
		Name:          "Vacation",
		TargetDate:    testDate(2026, time.December, 1),
		TargetAmount:  30000,
		CurrentAmount: 12000,
	})
	if err != nil {
		t.Fatalf("Failed to create goal: %v", err)
	}
	_, err = store.CreateGoal(ctx, service.GoalFields{
		Name:          "Old Laptop",
		TargetDate:    testDate(2026, time.January, 1),
		TargetAmount:  50000,
		CurrentAmount: 50000,
	})
	if err != nil {
		t.Fatalf("Failed to create overdue goal: %v", err)
	}

	all, err := store.GetGoals(ctx)
	if err != nil {
		t.Fatalf("Failed to get goals: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("GetGoals returned %d goals, want 2", len(all))
	}

	active, err := store.GetActiveGoals(ctx, today)
	if err != nil {
		t.Fatalf("Failed to get active goals: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("GetActiveGoals returned %d goals, want 1", len(active))
	}
	if active[0].Name != "Vacation" {
		t.Errorf("Active goal = %q, want \"Vacation\"", active[0].Name)
	}

	// Goal with target date today stays active
	active, err = store.GetActiveGoals(ctx, testDate(2026, time.December, 1))
	if err != nil {
		t.Fatalf("Failed to get active goals: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("Goal due today dropped from active set (got %d)", len(active))
	}
}

func TestEmergencyFund(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Seeded singleton starts zeroed
	fund, err := store.GetEmergencyFund(ctx)
	if err != nil {
		t.Fatalf("Failed to get emergency fund: %v", err)
	}
	if fund.TargetAmount != 0 || fund.CurrentAmount != 0 {
		t.Errorf("Fresh fund = %+v, want zeroed", fund)
	}

	if err := store.SetEmergencyFund(ctx, 25000, 2000); err != nil {
		t.Fatalf("Failed to set emergency fund: %v", err)
	}
	if err := store.UpdateEmergencyFundTarget(ctx, 90000); err != nil {
		t.Fatalf("Failed to update fund target: %v", err)
	}

	fund, err = store.GetEmergencyFund(ctx)
	if err != nil {
		t.Fatalf("Failed to get emergency fund: %v", err)
	}
	if fund.CurrentAmount != 25000 || fund.MonthlyContribution != 2000 || fund.TargetAmount != 90000 {
		t.Errorf("Fund = %+v, want current 25000, monthly 2000, target 90000", fund)
	}

	if err := store.SetEmergencyFund(ctx, -1, 0); err == nil {
		t.Error("Expected negative balance to be rejected")
	}
}

func TestNilContextRejected(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	//nolint:staticcheck // passing nil context is the point of the test
	if _, err := store.GetCategories(nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("Error = %v, want ErrNilContext", err)
	}
}
