package ports

import (
	"context"

	"beqc/domain/core"
	"beqc/domain/qc"
)

// RunRepository defines the interface for run-history storage operations
type RunRepository interface {
	// Create stores a completed run; resultCSV may be nil for single checks
	Create(ctx context.Context, run *qc.Run, resultCSV []byte) error

	// GetByID returns one run without its stored table
	GetByID(ctx context.Context, id core.RunID) (*qc.Run, error)

	// GetResult returns the stored CSV payload for a batch run
	GetResult(ctx context.Context, id core.RunID) ([]byte, error)

	// ListRecent returns the newest runs, newest first
	ListRecent(ctx context.Context, limit int) ([]*qc.Run, error)

	// Prune deletes all but the newest keep runs and reports how many went
	Prune(ctx context.Context, keep int) (int64, error)
}
