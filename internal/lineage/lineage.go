// Package lineage recovers data-lineage structure from the lines of one
// SQL statement. It locates source tables, common table expressions, and
// the target table, each with its column list.
//
// The extraction is heuristic and line-based: structural markers (WITH,
// AS (, INSERT OVERWRITE, a qualified table-name pattern) are found by
// scanning lines, and column lists are recovered from the span between
// SELECT and FROM clause boundaries. It is not a SQL parser and does not
// validate syntax; it recovers rough lineage from loosely structured
// text. Each locator is a pure function of the line array, so a grammar
// based parser could replace them without touching graph construction
// or layout.
package lineage

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// DefaultTablePattern matches schema-qualified table identifiers such as
// "analytics.outages" or "prod.fs.events".
const DefaultTablePattern = `[A-Za-z_][\w$]*(?:\.[A-Za-z_][\w$]*)+`

// Config holds analyzer configuration.
type Config struct {
	// TablePattern is the regular expression for fully-qualified table
	// names. Empty uses DefaultTablePattern.
	TablePattern string
	// DisplayColumns controls whether column lists are extracted at all.
	// When false every entity gets an empty column list; locating and
	// graph building proceed unchanged.
	DisplayColumns bool
	// Logger receives absence diagnostics (optional, discards if nil)
	Logger *slog.Logger
}

// Analyzer extracts lineage entities from statement line arrays.
// An Analyzer is safe for concurrent use; it holds no per-statement state.
type Analyzer struct {
	tablePattern   *regexp.Regexp
	displayColumns bool
	logger         *slog.Logger
}

// New creates an analyzer from the given configuration.
func New(cfg Config) (*Analyzer, error) {
	pattern := cfg.TablePattern
	if pattern == "" {
		pattern = DefaultTablePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid table pattern %q: %w", pattern, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Analyzer{
		tablePattern:   re,
		displayColumns: cfg.DisplayColumns,
		logger:         logger,
	}, nil
}

// Analyze runs every locator over one statement and returns the combined
// result. Absent entities (no CTE, no target, no sources) are reported
// through the logger and yield empty results; a malformed statement, one
// where a SELECT or FROM clause boundary cannot be found while scanning,
// returns an error wrapping ErrMalformed and the caller should skip the
// statement.
func (a *Analyzer) Analyze(lines []string) (core.Analysis, error) {
	ctes, err := a.CTEs(lines)
	if err != nil {
		return core.Analysis{}, err
	}

	target, err := a.Target(lines)
	if err != nil {
		return core.Analysis{}, err
	}

	sources, err := a.Sources(lines, target)
	if err != nil {
		return core.Analysis{}, err
	}

	return core.Analysis{Sources: sources, CTEs: ctes, Target: target}, nil
}
