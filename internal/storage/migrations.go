package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial ledger schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					type TEXT CHECK(type IN ('expense', 'income')) NOT NULL,
					budget REAL DEFAULT 0 CHECK (budget >= 0),
					alert_threshold INTEGER DEFAULT 80,
					is_need BOOLEAN DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY,
					date TEXT NOT NULL,
					category_id INTEGER,
					amount REAL NOT NULL CHECK (amount > 0),
					description TEXT,
					type TEXT CHECK(type IN ('expense', 'income')) NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories (id)
						ON DELETE SET NULL
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,

				`CREATE TABLE IF NOT EXISTS income (
					id INTEGER PRIMARY KEY,
					date TEXT NOT NULL,
					amount REAL NOT NULL CHECK (amount > 0),
					source TEXT NOT NULL,
					is_recurring BOOLEAN DEFAULT 0,
					frequency TEXT CHECK(frequency IN ('monthly', 'quarterly', 'yearly')),
					next_date TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_income_date ON income(date)`,

				`CREATE TABLE IF NOT EXISTS savings_goals (
					id INTEGER PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					target_amount REAL NOT NULL CHECK (target_amount > 0),
					current_amount REAL DEFAULT 0 CHECK (current_amount >= 0),
					target_date TEXT NOT NULL,
					monthly_contribution REAL DEFAULT 0 CHECK (monthly_contribution >= 0),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS emergency_fund (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					target_amount REAL NOT NULL DEFAULT 0,
					current_amount REAL DEFAULT 0 CHECK (current_amount >= 0),
					monthly_contribution REAL DEFAULT 0 CHECK (monthly_contribution >= 0),
					last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`INSERT INTO emergency_fund (id, target_amount, current_amount, monthly_contribution)
					VALUES (1, 0, 0, 0)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default categories",
		Up: func(tx *sql.Tx) error {
			var count int
			if err := tx.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
				return fmt.Errorf("failed to count categories: %w", err)
			}
			if count > 0 {
				return nil
			}

			defaults := []struct {
				name   string
				typ    string
				budget float64
				isNeed bool
			}{
				// Essential expenses (needs)
				{"Housing", "expense", 15000, true},
				{"Utilities", "expense", 3000, true},
				{"Groceries", "expense", 8000, true},
				{"Transportation", "expense", 5000, true},
				{"Healthcare", "expense", 3000, true},
				{"Insurance", "expense", 2000, true},

				// Discretionary expenses (wants)
				{"Entertainment", "expense", 5000, false},
				{"Dining Out", "expense", 4000, false},
				{"Shopping", "expense", 5000, false},
				{"Personal Care", "expense", 2000, false},
				{"Education", "expense", 3000, false},
				{"Gifts", "expense", 2000, false},

				// Income categories
				{"Salary", "income", 0, false},
				{"Freelance", "income", 0, false},
				{"Investments", "income", 0, false},
				{"Other Income", "income", 0, false},
			}

			stmt, err := tx.Prepare(
				"INSERT INTO categories (name, type, budget, is_need) VALUES (?, ?, ?, ?)")
			if err != nil {
				return fmt.Errorf("failed to prepare seed statement: %w", err)
			}
			defer stmt.Close()

			for _, c := range defaults {
				if _, err := stmt.Exec(c.name, c.typ, c.budget, c.isNeed); err != nil {
					return fmt.Errorf("failed to seed category %q: %w", c.name, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
