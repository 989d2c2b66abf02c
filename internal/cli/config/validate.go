package config

import (
	"fmt"
	"regexp"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TablePattern != "" {
		if _, err := regexp.Compile(c.TablePattern); err != nil {
			return fmt.Errorf("invalid table_pattern: %w", err)
		}
	}

	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %g", c.Padding)
	}

	if c.WatchDebounceMS < 0 {
		return fmt.Errorf("watch_debounce_ms must not be negative, got %d", c.WatchDebounceMS)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (use debug, info, warn or error)", c.LogLevel)
	}

	return nil
}
