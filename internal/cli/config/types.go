// Package config loads CLI configuration from defaults, an optional
// YAML file, SQLTRAIL_ environment variables and command-line flags,
// in rising precedence.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/sqltrail/internal/layout"
)

// Config holds all CLI configuration options.
type Config struct {
	TablePattern    string            `koanf:"table_pattern"`
	Columns         bool              `koanf:"columns"`
	Padding         float64           `koanf:"padding"`
	StatePath       string            `koanf:"state_path"` // empty disables run history
	LogLevel        string            `koanf:"log_level"`
	NoColor         bool              `koanf:"no_color"`
	Vars            map[string]string `koanf:"vars"`
	WatchDebounceMS int               `koanf:"watch_debounce_ms"`
	Verbose         bool              `koanf:"verbose"`
	OutputFormat    string            `koanf:"output"`
}

// Default configuration values.
const (
	DefaultStateFile       = ".sqltrail/runs.db"
	DefaultLogLevel        = "warn"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultWatchDebounceMS = 300
	DefaultPadding         = layout.DefaultPadding
)

// SlogLevel maps the configured log level to a slog level. Verbose
// forces debug regardless of log_level.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// WatchDebounce returns the watch-mode debounce window as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}
