package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupManager copies the database to timestamped backup files. It is run
// on demand and as part of shutdown; a failed backup is logged by callers
// and never blocks the session from ending.
type BackupManager struct {
	db         *sql.DB
	dbPath     string
	backupsDir string
}

// NewBackupManager creates a backup manager writing into a backups/
// directory next to the database file.
func NewBackupManager(db *sql.DB, dbPath string) (*BackupManager, error) {
	if dbPath == ":memory:" {
		return nil, fmt.Errorf("cannot back up an in-memory database")
	}

	backupsDir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(backupsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{
		db:         db,
		dbPath:     dbPath,
		backupsDir: backupsDir,
	}, nil
}

// Create writes a timestamped backup of the database and returns its path.
func (bm *BackupManager) Create(ctx context.Context) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	destPath := filepath.Join(bm.backupsDir, fmt.Sprintf("budget_backup_%s.db", timestamp))

	if err := bm.backupDatabase(ctx, destPath); err != nil {
		return "", err
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat backup: %w", err)
	}

	slog.Info("created database backup", "path", destPath, "size", info.Size())
	return destPath, nil
}

// backupDatabase copies the live database to destPath using VACUUM INTO,
// falling back to a plain file copy when that is unavailable.
func (bm *BackupManager) backupDatabase(ctx context.Context, destPath string) error {
	// Ensure WAL is checkpointed so the main file is current
	if _, err := bm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	// destPath is built from a timestamp, but guard against surprises anyway
	if strings.ContainsAny(destPath, `'";`) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid backup destination path")
	}

	query := fmt.Sprintf("VACUUM INTO '%s'", destPath)
	if _, err := bm.db.ExecContext(ctx, query); err != nil {
		return bm.copyFile(bm.dbPath, destPath)
	}
	return nil
}

func (bm *BackupManager) copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy database: %w", err)
	}
	return out.Sync()
}
