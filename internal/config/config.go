// Package config loads application settings from Viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hollis-b/budgeteer/internal/common"
)

// Settings holds the resolved application configuration.
type Settings struct {
	DatabasePath    string
	LogLevel        string
	LogFormat       string
	BackupOnExit    bool
	RefreshInterval time.Duration
	AlertInterval   time.Duration
	SnapshotTTL     time.Duration
}

// Load resolves settings from Viper with defaults applied. Values come
// from the config file or BUDGETEER_ environment variables.
func Load() (*Settings, error) {
	s := &Settings{
		DatabasePath:    viper.GetString("database.path"),
		LogLevel:        viper.GetString("log.level"),
		LogFormat:       viper.GetString("log.format"),
		BackupOnExit:    viper.GetBool("backup.on_exit"),
		RefreshInterval: viper.GetDuration("dashboard.refresh_interval"),
		AlertInterval:   viper.GetDuration("dashboard.alert_interval"),
		SnapshotTTL:     viper.GetDuration("dashboard.snapshot_ttl"),
	}

	if s.DatabasePath == "" {
		s.DatabasePath = DefaultDatabasePath()
	}
	s.DatabasePath = ExpandPath(s.DatabasePath)

	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.LogFormat == "" {
		s.LogFormat = "text"
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = time.Minute
	}
	if s.AlertInterval <= 0 {
		s.AlertInterval = time.Hour
	}
	if s.SnapshotTTL <= 0 {
		s.SnapshotTTL = 5 * time.Minute
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) validate() error {
	switch s.LogFormat {
	case "text", "json":
	default:
		return common.NewUserError(`log.format must be "text" or "json"`, common.ErrInvalidConfig)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return common.NewUserError("log.level must be one of debug, info, warn, error", common.ErrInvalidConfig)
	}
	return nil
}

// DefaultDatabasePath returns the default ledger location under the
// user's data directory.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "budget.db"
	}
	return filepath.Join(home, ".local", "share", "budgeteer", "budget.db")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
