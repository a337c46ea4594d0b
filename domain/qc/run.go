package qc

import (
	"time"

	"beqc/domain/core"
	"beqc/domain/survey"
)

// RunMode distinguishes single-record checks from batch runs
type RunMode string

const (
	ModeSingle RunMode = "single"
	ModeBatch  RunMode = "batch"
)

// Run records one completed QC interaction for the history view. Batch
// runs keep their full scored table so the export link survives reloads.
type Run struct {
	ID            core.RunID     `json:"id" db:"id"`
	Mode          RunMode        `json:"mode" db:"mode"`
	Target        survey.Target  `json:"target" db:"target"`
	RowCount      int            `json:"row_count" db:"row_count"`
	Summary       FlagSummary    `json:"summary" db:"-"`
	PredictorMode string         `json:"predictor_mode" db:"predictor_mode"`
	Fingerprint   core.Hash      `json:"fingerprint" db:"fingerprint"`
	Duration      time.Duration  `json:"duration" db:"duration_ms"`
	CreatedAt     core.Timestamp `json:"created_at" db:"created_at"`
}

// NewRun starts a run record with a fresh ID and creation time
func NewRun(mode RunMode, target survey.Target) *Run {
	return &Run{
		ID:        core.NewRunID(),
		Mode:      mode,
		Target:    target,
		CreatedAt: core.Now(),
	}
}
