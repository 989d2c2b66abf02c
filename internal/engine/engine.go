// Package engine drives the trace pipeline. It lifts SQL statements out
// of a source file, resolves script variables, analyzes each statement
// for lineage concurrently, and lays the resulting dependency graphs out
// as tiered diagrams. When a state path is configured every trace is
// recorded in the run history store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqltrail/internal/dag"
	"github.com/leapstack-labs/sqltrail/internal/layout"
	"github.com/leapstack-labs/sqltrail/internal/lineage"
	"github.com/leapstack-labs/sqltrail/internal/script"
	"github.com/leapstack-labs/sqltrail/internal/state"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// Engine orchestrates lineage traces over source files.
// An Engine is safe for concurrent use once constructed.
type Engine struct {
	analyzer       *lineage.Analyzer
	store          core.Store
	logger         *slog.Logger
	vars           map[string]string
	padding        float64
	parallelism    int
	displayColumns bool
}

// Config holds engine configuration.
type Config struct {
	// TablePattern is the regular expression for qualified table names
	// (lineage.DefaultTablePattern if empty)
	TablePattern string
	// DisplayColumns controls whether node labels carry column lists
	DisplayColumns bool
	// Padding is the margin the invisible corner anchors add around
	// the diagram (layout.DefaultPadding if zero)
	Padding float64
	// Vars overrides script variable assignments found in the host file
	Vars map[string]string
	// StatePath is the run history database path (empty disables history)
	StatePath string
	// Parallelism bounds concurrent statement analysis (NumCPU if zero)
	Parallelism int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine. The run history store is opened eagerly so a
// bad state path fails here rather than halfway through a trace.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		"display_columns", cfg.DisplayColumns, "state_path", cfg.StatePath)

	analyzer, err := lineage.New(lineage.Config{
		TablePattern:   cfg.TablePattern,
		DisplayColumns: cfg.DisplayColumns,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	var store core.Store
	if cfg.StatePath != "" {
		s := state.NewSQLiteStore()
		if err := s.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := s.InitSchema(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to initialize state schema: %w", err)
		}
		store = s
	}

	padding := cfg.Padding
	if padding <= 0 {
		padding = layout.DefaultPadding
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	return &Engine{
		analyzer:       analyzer,
		store:          store,
		logger:         logger,
		vars:           cfg.Vars,
		padding:        padding,
		parallelism:    parallelism,
		displayColumns: cfg.DisplayColumns,
	}, nil
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	var errs []error
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing engine: %v", errs)
	}
	return nil
}

// StatementTrace is one statement's analyzed and positioned lineage.
type StatementTrace struct {
	// Index is the statement's order of appearance in the source file
	Index int
	// Analysis holds the extracted entities
	Analysis core.Analysis
	// Graph is the dependency graph over diagram labels
	Graph *dag.Graph
	// Tiers are the diagram columns, sources first, target last
	Tiers [][]string
	// Positions maps labels (and corner anchors) to coordinates
	Positions map[string]layout.Point
}

// Result is the outcome of tracing one source file.
type Result struct {
	// Source is the traced file path
	Source string
	// Statements holds one trace per analyzable statement, in order
	Statements []StatementTrace
	// Skipped counts statements dropped as malformed
	Skipped int
	// Run is the recorded history row, nil when history is disabled
	Run *core.Run
}

// Entities returns the total entity count across all statements.
func (r *Result) Entities() int {
	n := 0
	for _, tr := range r.Statements {
		n += len(tr.Analysis.Entities())
	}
	return n
}

// Trace runs the full pipeline over one source file: read, extract
// statements, substitute variables, analyze each statement, build and
// lay out its graph. Malformed statements are skipped with a warning
// and turn the recorded run status partial.
func (e *Engine) Trace(ctx context.Context, path string) (*Result, error) {
	e.logger.Info("starting trace", "source", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	content := string(data)

	var run *core.Run
	if e.store != nil {
		run, err = e.store.CreateRun(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create run: %w", err)
		}
		e.logger.Debug("created run", "run_id", run.ID)
	}

	result, err := e.traceContent(ctx, path, content)
	if err != nil {
		if run != nil {
			_ = e.store.CompleteRun(run.ID, core.RunStatusFailed, 0, 0, err.Error())
		}
		return nil, err
	}
	result.Source = path

	if run != nil {
		status := core.RunStatusSuccess
		errMsg := ""
		if result.Skipped > 0 {
			status = core.RunStatusPartial
			errMsg = fmt.Sprintf("%d statement(s) skipped as malformed", result.Skipped)
		}
		total := len(result.Statements) + result.Skipped
		if err := e.store.CompleteRun(run.ID, status, total, result.Entities(), errMsg); err != nil {
			e.logger.Error("failed to complete run", "run_id", run.ID, "error", err)
		}
		if refreshed, err := e.store.GetRun(run.ID); err == nil {
			run = refreshed
		}
		result.Run = run
	}

	e.logger.Info("trace completed", "source", path,
		"statements", len(result.Statements), "skipped", result.Skipped)

	return result, nil
}

// traceContent extracts, substitutes, and analyzes every statement in
// the given file content. Statements are analyzed concurrently; results
// keep their order of appearance.
func (e *Engine) traceContent(ctx context.Context, path, content string) (*Result, error) {
	stmts := script.Statements(path, content)
	if len(stmts) == 0 {
		e.logger.Warn("no SQL statements found", "source", path)
		return &Result{}, nil
	}
	e.logger.Debug("extracted statements", "source", path, "count", len(stmts))

	resolve := e.resolver(content)
	for i := range stmts {
		lines, unresolved := script.Substitute(stmts[i].Lines, resolve)
		for _, name := range unresolved {
			e.logger.Warn("no value found for variable",
				"name", name, "statement", stmts[i].Index)
		}
		stmts[i].Lines = lines
	}

	traces := make([]*StatementTrace, len(stmts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, st := range stmts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := e.traceStatement(st)
			if err != nil {
				if errors.Is(err, lineage.ErrMalformed) {
					e.logger.Warn("skipping malformed statement",
						"statement", st.Index, "error", err)
					return nil
				}
				return fmt.Errorf("statement %d: %w", st.Index, err)
			}
			traces[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, tr := range traces {
		if tr == nil {
			result.Skipped++
			continue
		}
		result.Statements = append(result.Statements, *tr)
	}
	return result, nil
}

// traceStatement analyzes one statement and lays out its graph.
func (e *Engine) traceStatement(st script.Statement) (*StatementTrace, error) {
	analysis, err := e.analyzer.Analyze(st.Lines)
	if err != nil {
		return nil, err
	}

	graph := e.buildGraph(analysis)
	tiers, positions := e.Layout(graph)

	return &StatementTrace{
		Index:     st.Index,
		Analysis:  analysis,
		Graph:     graph,
		Tiers:     tiers,
		Positions: positions,
	}, nil
}

// Layout computes tiers, node positions, and corner anchors for a graph.
func (e *Engine) Layout(g *dag.Graph) ([][]string, map[string]layout.Point) {
	tiers := g.Tiers()
	positions := layout.Assign(tiers)
	layout.AddAnchors(positions, e.padding)
	return tiers, positions
}

// resolver builds the variable resolver for one host file: configured
// vars take precedence over assignments found in the file itself.
func (e *Engine) resolver(content string) script.Resolver {
	return func(name string) (string, bool) {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
		return script.LookupAssignment(content, name)
	}
}

// GetStateStore returns the run history store, nil when history is
// disabled.
func (e *Engine) GetStateStore() core.Store {
	return e.store
}

// DisplayColumns reports whether node labels carry column lists.
func (e *Engine) DisplayColumns() bool {
	return e.displayColumns
}
