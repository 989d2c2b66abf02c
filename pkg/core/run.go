package core

import "time"

// RunStatus represents the state of a trace run.
type RunStatus string

// Run statuses.
const (
	// RunStatusRunning means the trace is still in progress.
	RunStatusRunning RunStatus = "running"
	// RunStatusSuccess means every statement was analyzed.
	RunStatusSuccess RunStatus = "success"
	// RunStatusPartial means some statements were skipped as malformed.
	RunStatusPartial RunStatus = "partial"
	// RunStatusFailed means the trace aborted before producing output.
	RunStatusFailed RunStatus = "failed"
)

// Run records one trace invocation over a source file.
type Run struct {
	// ID is the unique run identifier
	ID string
	// Source is the path of the traced file
	Source string
	// Statements is the number of statements found in the source
	Statements int
	// Entities is the total number of entities extracted
	Entities int
	// Status is the final state of the run
	Status RunStatus
	// StartedAt is when the run began (UTC)
	StartedAt time.Time
	// CompletedAt is when the run finished, nil while running
	CompletedAt *time.Time
	// Error holds the failure message for failed or partial runs
	Error string
}

// Store defines the interface for run-history persistence.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	CreateRun(source string) (*Run, error)
	CompleteRun(id string, status RunStatus, statements, entities int, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
}
