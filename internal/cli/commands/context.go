// Package commands implements the sqltrail subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqltrail/internal/cli/config"
	"github.com/leapstack-labs/sqltrail/internal/cli/output"
	"github.com/leapstack-labs/sqltrail/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an
// engine. Useful for commands that never run the trace pipeline.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		TablePattern:    os.Getenv("SQLTRAIL_TABLE_PATTERN"),
		Columns:         os.Getenv("SQLTRAIL_COLUMNS") != "false",
		Padding:         config.DefaultPadding,
		StatePath:       getEnvOrDefault("SQLTRAIL_STATE_PATH", config.DefaultStateFile),
		LogLevel:        getEnvOrDefault("SQLTRAIL_LOG_LEVEL", config.DefaultLogLevel),
		WatchDebounceMS: config.DefaultWatchDebounceMS,
		Verbose:         os.Getenv("SQLTRAIL_VERBOSE") == "true",
		OutputFormat:    os.Getenv("SQLTRAIL_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure the state directory exists before the store opens it
	if cfg.StatePath != "" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	return engine.New(engine.Config{
		TablePattern:   cfg.TablePattern,
		DisplayColumns: cfg.Columns,
		Padding:        cfg.Padding,
		Vars:           cfg.Vars,
		StatePath:      cfg.StatePath,
		Logger:         logger,
	})
}
