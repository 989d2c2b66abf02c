// Package testutil provides logging helpers shared by tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// NewCaptureLogger returns a logger that records every message so
// tests can assert on emitted diagnostics.
func NewCaptureLogger() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	return slog.New(c), c
}

// LogCapture is a slog.Handler that retains records in memory.
// Safe for concurrent use.
type LogCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r.Clone())
	return nil
}

func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler { return c }

func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Messages returns the captured messages at the given level, in order.
func (c *LogCapture) Messages(level slog.Level) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var msgs []string
	for _, r := range c.records {
		if r.Level == level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Has reports whether any record at the given level contains substr.
func (c *LogCapture) Has(level slog.Level, substr string) bool {
	for _, m := range c.Messages(level) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
