package output

import (
	"time"

	"github.com/leapstack-labs/sqltrail/internal/render"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

// TraceOutput is the JSON document for the trace command, one per
// source file.
type TraceOutput struct {
	Source     string            `json:"source"`
	Statements []StatementOutput `json:"statements"`
	Skipped    int               `json:"skipped"`
	Run        *RunOutput        `json:"run,omitempty"`
}

// StatementOutput is one traced statement with its positioned diagram.
type StatementOutput struct {
	Index   int              `json:"index"`
	Target  string           `json:"target,omitempty"`
	CTE     string           `json:"cte,omitempty"`
	Sources []string         `json:"sources"`
	Diagram *render.Document `json:"diagram"`
}

// GraphOutput is the JSON document for the graph command: the merged
// dependency graph of every traced statement.
type GraphOutput struct {
	Sources []string    `json:"sources"`
	Tiers   []GraphTier `json:"tiers"`
	Roots   []string    `json:"roots"`
	Leaves  []string    `json:"leaves"`
	Nodes   int         `json:"nodes"`
	Edges   int         `json:"edges"`
}

// GraphTier is one dependency tier of the merged graph.
type GraphTier struct {
	Index  int         `json:"index"`
	Tables []GraphNode `json:"tables"`
}

// GraphNode is one table in the merged graph with its neighbors.
type GraphNode struct {
	Label     string   `json:"label"`
	Kind      string   `json:"kind,omitempty"`
	ReadsFrom []string `json:"reads_from,omitempty"`
	Feeds     []string `json:"feeds,omitempty"`
}

// TableInfo is one extracted entity in the tables command output.
type TableInfo struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Columns   []string `json:"columns,omitempty"`
	Source    string   `json:"source"`
	Statement int      `json:"statement"`
}

// TablesOutput is the JSON document for the tables command.
type TablesOutput struct {
	Tables []TableInfo `json:"tables"`
	Total  int         `json:"total"`
}

// RunOutput is one recorded trace run.
type RunOutput struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	Statements  int    `json:"statements"`
	Entities    int    `json:"entities"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// RunsOutput is the JSON document for the runs command.
type RunsOutput struct {
	Runs  []*RunOutput `json:"runs"`
	Total int          `json:"total"`
}

// VersionOutput is the JSON document for the version command.
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// NewRunOutput converts a recorded run for serialization. Timestamps
// are RFC 3339 in UTC.
func NewRunOutput(run *core.Run) *RunOutput {
	out := &RunOutput{
		ID:         run.ID,
		Source:     run.Source,
		Status:     string(run.Status),
		Statements: run.Statements,
		Entities:   run.Entities,
		Error:      run.Error,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
	}
	if run.CompletedAt != nil {
		out.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	return out
}
