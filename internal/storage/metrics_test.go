package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
)

// Sum of the seeded expense category budgets: 15000 + 3000 + 8000 + 5000 +
// 3000 + 2000 needs, 5000 + 4000 + 5000 + 2000 + 3000 + 2000 wants.
const (
	seededTotalBudget = 57000.0
	seededNeedsBudget = 36000.0
)

func TestGetMonthlyBudgetTotals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	groceriesID := mustCategoryID(t, store, "Groceries")
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 1), 12000)
	mustSaveExpense(t, store, groceriesID, testDate(2026, time.March, 12), 3500)
	// Different month, must not count
	mustSaveExpense(t, store, housingID, testDate(2026, time.February, 1), 9999)

	budget, spent, err := store.GetMonthlyBudgetTotals(ctx, "2026-03")
	if err != nil {
		t.Fatalf("Failed to get budget totals: %v", err)
	}
	if budget != seededTotalBudget {
		t.Errorf("Budget = %v, want %v", budget, seededTotalBudget)
	}
	if spent != 15500 {
		t.Errorf("Spent = %v, want 15500", spent)
	}
}

func TestGetCategorySpendingIncludesZeroSpend(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 1), 12000)

	spending, err := store.GetCategorySpending(ctx, "2026-03")
	if err != nil {
		t.Fatalf("Failed to get category spending: %v", err)
	}

	// All 12 seeded expense categories appear, spent or not
	if len(spending) != 12 {
		t.Fatalf("Got %d categories, want 12", len(spending))
	}

	// Highest spend first
	if spending[0].Name != "Housing" || spending[0].Spent != 12000 || spending[0].TxnCount != 1 {
		t.Errorf("Top row = %+v, want Housing with 12000 spent, 1 txn", spending[0])
	}

	var zeroSpend int
	for _, cs := range spending {
		if cs.Spent == 0 && cs.TxnCount == 0 {
			zeroSpend++
		}
	}
	if zeroSpend != 11 {
		t.Errorf("Got %d zero-spend categories, want 11", zeroSpend)
	}
}

func TestGetNeedsMonthlyProjection(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	since := testDate(2026, time.January, 1)

	// No transactions: every need category falls back to its budget
	projection, err := store.GetNeedsMonthlyProjection(ctx, since)
	if err != nil {
		t.Fatalf("Failed to get projection: %v", err)
	}
	if projection != seededNeedsBudget {
		t.Errorf("Projection = %v, want %v (pure budget fallback)", projection, seededNeedsBudget)
	}

	// Housing gets history: 10000 in Feb, 12000 in Mar, avg 11000.
	// The average replaces Housing's budget; it is never blended with it.
	housingID := mustCategoryID(t, store, "Housing")
	mustSaveExpense(t, store, housingID, testDate(2026, time.February, 5), 10000)
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 5), 12000)

	projection, err = store.GetNeedsMonthlyProjection(ctx, since)
	if err != nil {
		t.Fatalf("Failed to get projection: %v", err)
	}
	want := seededNeedsBudget - 15000 + 11000
	if projection != want {
		t.Errorf("Projection = %v, want %v", projection, want)
	}

	// Transactions before the window don't count
	mustSaveExpense(t, store, housingID, testDate(2025, time.June, 5), 99999)
	projection, err = store.GetNeedsMonthlyProjection(ctx, since)
	if err != nil {
		t.Fatalf("Failed to get projection: %v", err)
	}
	if projection != want {
		t.Errorf("Projection = %v after out-of-window txn, want %v", projection, want)
	}

	// Non-need spending doesn't move the projection
	diningID := mustCategoryID(t, store, "Dining Out")
	mustSaveExpense(t, store, diningID, testDate(2026, time.March, 10), 5000)
	projection, err = store.GetNeedsMonthlyProjection(ctx, since)
	if err != nil {
		t.Fatalf("Failed to get projection: %v", err)
	}
	if projection != want {
		t.Errorf("Projection = %v after non-need txn, want %v", projection, want)
	}
}

func TestGetMonthlyIncomeSingleFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	create := func(date time.Time, amount float64, recurring bool, freq model.Frequency) {
		t.Helper()
		fields := service.IncomeFields{Date: date, Source: "Test", Amount: amount}
		if recurring {
			fields.IsRecurring = true
			fields.Frequency = freq
		}
		if _, err := store.CreateIncome(ctx, fields); err != nil {
			t.Fatalf("Failed to create income entry: %v", err)
		}
	}

	// One-time entry in the month
	create(testDate(2026, time.March, 10), 1000, false, "")
	// Recurring monthly dated in a past month: still counts
	create(testDate(2025, time.November, 1), 5000, true, model.FrequencyMonthly)
	// Recurring monthly dated in the month: counts exactly once
	create(testDate(2026, time.March, 25), 2000, true, model.FrequencyMonthly)
	// Recurring quarterly dated outside the month: does not count
	create(testDate(2026, time.January, 15), 9000, true, model.FrequencyQuarterly)
	// One-time entry in another month: does not count
	create(testDate(2026, time.February, 10), 700, false, "")

	total, err := store.GetMonthlyIncome(ctx, "2026-03")
	if err != nil {
		t.Fatalf("Failed to get monthly income: %v", err)
	}
	if total != 8000 {
		t.Errorf("Monthly income = %v, want 8000", total)
	}

	recurring, err := store.GetRecurringMonthlyIncome(ctx)
	if err != nil {
		t.Fatalf("Failed to get recurring income: %v", err)
	}
	if recurring != 7000 {
		t.Errorf("Recurring monthly income = %v, want 7000", recurring)
	}
}

func TestGetIncomeTransactionTotal(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	salaryID := mustCategoryID(t, store, "Salary")
	if _, err := store.SaveTransaction(ctx, &model.Transaction{
		Date:       testDate(2026, time.March, 1),
		CategoryID: &salaryID,
		Amount:     4500,
		Type:       model.TransactionTypeIncome,
	}); err != nil {
		t.Fatalf("Failed to save income transaction: %v", err)
	}
	housingID := mustCategoryID(t, store, "Housing")
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 2), 1000)

	total, err := store.GetIncomeTransactionTotal(ctx, "2026-03")
	if err != nil {
		t.Fatalf("Failed to get income transaction total: %v", err)
	}
	if total != 4500 {
		t.Errorf("Income transaction total = %v, want 4500", total)
	}
}

func TestGetRecentMonthlyTotals(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	mustSaveExpense(t, store, housingID, testDate(2026, time.January, 10), 1000)
	mustSaveExpense(t, store, housingID, testDate(2026, time.February, 10), 1500)
	mustSaveExpense(t, store, housingID, testDate(2026, time.March, 10), 1200)
	mustSaveExpense(t, store, housingID, testDate(2025, time.December, 10), 800)

	totals, err := store.GetRecentMonthlyTotals(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get monthly totals: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("Got %d months, want 3", len(totals))
	}

	// Newest first
	if totals[0].Month != "2026-03" || totals[0].Total != 1200 {
		t.Errorf("Row 0 = %+v, want 2026-03 / 1200", totals[0])
	}
	if totals[0].PrevTotal == nil || *totals[0].PrevTotal != 1500 {
		t.Errorf("Row 0 PrevTotal = %v, want 1500", totals[0].PrevTotal)
	}
	if totals[1].Month != "2026-02" || totals[1].PrevTotal == nil || *totals[1].PrevTotal != 1000 {
		t.Errorf("Row 1 = %+v, want 2026-02 with prev 1000", totals[1])
	}
	// Oldest row in the window has no predecessor
	if totals[2].Month != "2026-01" || totals[2].PrevTotal != nil {
		t.Errorf("Row 2 = %+v, want 2026-01 with nil prev", totals[2])
	}
}

func TestGetTopCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ids := map[string]int{}
	for _, name := range []string{"Housing", "Groceries", "Entertainment", "Shopping", "Utilities", "Healthcare"} {
		ids[name] = mustCategoryID(t, store, name)
	}
	mustSaveExpense(t, store, ids["Housing"], testDate(2026, time.March, 1), 12000)
	mustSaveExpense(t, store, ids["Groceries"], testDate(2026, time.March, 2), 6000)
	mustSaveExpense(t, store, ids["Groceries"], testDate(2026, time.March, 20), 2000)
	mustSaveExpense(t, store, ids["Entertainment"], testDate(2026, time.March, 3), 3000)
	mustSaveExpense(t, store, ids["Shopping"], testDate(2026, time.March, 4), 2500)
	mustSaveExpense(t, store, ids["Utilities"], testDate(2026, time.March, 5), 2200)
	mustSaveExpense(t, store, ids["Healthcare"], testDate(2026, time.March, 6), 500)

	top, err := store.GetTopCategories(ctx, "2026-03", 5)
	if err != nil {
		t.Fatalf("Failed to get top categories: %v", err)
	}
	if len(top) != 5 {
		t.Fatalf("Got %d categories, want 5", len(top))
	}

	wantOrder := []string{"Housing", "Groceries", "Entertainment", "Shopping", "Utilities"}
	for i, want := range wantOrder {
		if top[i].Name != want {
			t.Errorf("Rank %d = %q, want %q", i+1, top[i].Name, want)
		}
	}
	if top[1].Spent != 8000 || top[1].TxnCount != 2 {
		t.Errorf("Groceries row = %+v, want 8000 spent over 2 txns", top[1])
	}
}

func TestReportQueries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	housingID := mustCategoryID(t, store, "Housing")
	groceriesID := mustCategoryID(t, store, "Groceries")
	salaryID := mustCategoryID(t, store, "Salary")

	mustSaveExpense(t, store, housingID, testDate(2026, time.February, 1), 12000)
	mustSaveExpense(t, store, groceriesID, testDate(2026, time.February, 1), 500)
	mustSaveExpense(t, store, groceriesID, testDate(2026, time.March, 15), 700)
	if _, err := store.SaveTransaction(ctx, &model.Transaction{
		Date:       testDate(2026, time.February, 25),
		CategoryID: &salaryID,
		Amount:     40000,
		Type:       model.TransactionTypeIncome,
	}); err != nil {
		t.Fatalf("Failed to save income transaction: %v", err)
	}

	start := testDate(2026, time.February, 1)
	end := testDate(2026, time.March, 31)

	daily, err := store.GetDailySpending(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to get daily spending: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("Got %d spending days, want 2", len(daily))
	}
	if daily[0].Total != 12500 {
		t.Errorf("Feb 1 total = %v, want 12500", daily[0].Total)
	}

	dist, err := store.GetCategoryDistribution(ctx, start, end, 0)
	if err != nil {
		t.Fatalf("Failed to get distribution: %v", err)
	}
	if len(dist) != 2 {
		t.Fatalf("Got %d categories, want 2", len(dist))
	}
	if dist[0].Name != "Housing" || dist[0].Total != 12000 {
		t.Errorf("Top category = %+v, want Housing / 12000", dist[0])
	}
	if dist[1].Name != "Groceries" || dist[1].Total != 1200 {
		t.Errorf("Second category = %+v, want Groceries / 1200", dist[1])
	}

	comparison, err := store.GetMonthlyComparison(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to get comparison: %v", err)
	}
	if len(comparison) != 2 {
		t.Fatalf("Got %d months, want 2", len(comparison))
	}
	if comparison[0].Month != "2026-02" || comparison[0].Income != 40000 || comparison[0].Expense != 12500 {
		t.Errorf("Feb row = %+v, want income 40000, expense 12500", comparison[0])
	}
	if comparison[1].Month != "2026-03" || comparison[1].Income != 0 || comparison[1].Expense != 700 {
		t.Errorf("Mar row = %+v, want income 0, expense 700", comparison[1])
	}

	if _, err := store.GetDailySpending(ctx, end, start); err == nil {
		t.Error("Expected inverted range to fail")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// createTestStorage already migrated once
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}

	categories, err := store.GetCategories(ctx)
	if err != nil {
		t.Fatalf("Failed to get categories: %v", err)
	}
	if len(categories) != 16 {
		t.Errorf("Got %d seeded categories, want 16", len(categories))
	}
}
