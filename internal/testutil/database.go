// Package testutil provides shared helpers for tests that need a ledger
// database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/hollis-b/budgeteer/internal/model"
	"github.com/hollis-b/budgeteer/internal/service"
	"github.com/hollis-b/budgeteer/internal/storage"
)

// SetupTestDB creates a migrated in-memory ledger database and registers
// cleanup with the test. The v2 migration seeds the default categories, so
// tests can reference names like "Housing" without creating them.
func SetupTestDB(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return store
}

// MustCreateCategory creates a category or fails the test.
func MustCreateCategory(t *testing.T, store service.Storage, fields service.CategoryFields) *model.Category {
	t.Helper()

	category, err := store.CreateCategory(context.Background(), fields)
	if err != nil {
		t.Fatalf("failed to create category %q: %v", fields.Name, err)
	}
	return category
}

// MustSaveTransaction saves a transaction or fails the test.
func MustSaveTransaction(t *testing.T, store service.Storage, txn model.Transaction) *model.Transaction {
	t.Helper()

	saved, err := store.SaveTransaction(context.Background(), &txn)
	if err != nil {
		t.Fatalf("failed to save transaction: %v", err)
	}
	return saved
}

// Date builds a UTC midnight time for concise test fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
