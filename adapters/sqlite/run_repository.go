package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"beqc/domain/core"
	"beqc/domain/qc"
	"beqc/domain/survey"
	"beqc/ports"
)

// runRepository implements ports.RunRepository over the embedded database
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run-history repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// runRow mirrors the qc_runs table
type runRow struct {
	ID            string `db:"id"`
	Mode          string `db:"mode"`
	Target        string `db:"target"`
	RowCount      int    `db:"row_count"`
	UnderCount    int    `db:"under_count"`
	WithinCount   int    `db:"within_count"`
	OverCount     int    `db:"over_count"`
	UnscoredCount int    `db:"unscored_count"`
	PredictorMode string `db:"predictor_mode"`
	Fingerprint   string `db:"fingerprint"`
	DurationMS    int64  `db:"duration_ms"`
	CreatedAt     string `db:"created_at"`
}

func (r *runRow) toDomain() *qc.Run {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return &qc.Run{
		ID:       core.RunID(r.ID),
		Mode:     qc.RunMode(r.Mode),
		Target:   survey.Target(r.Target),
		RowCount: r.RowCount,
		Summary: qc.FlagSummary{
			Under:    r.UnderCount,
			Within:   r.WithinCount,
			Over:     r.OverCount,
			Unscored: r.UnscoredCount,
		},
		PredictorMode: r.PredictorMode,
		Fingerprint:   core.Hash(r.Fingerprint),
		Duration:      time.Duration(r.DurationMS) * time.Millisecond,
		CreatedAt:     core.NewTimestamp(createdAt),
	}
}

func (r *runRepository) Create(ctx context.Context, run *qc.Run, resultCSV []byte) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO qc_runs (
			id, mode, target, row_count,
			under_count, within_count, over_count, unscored_count,
			predictor_mode, fingerprint, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), string(run.Mode), string(run.Target), run.RowCount,
		run.Summary.Under, run.Summary.Within, run.Summary.Over, run.Summary.Unscored,
		run.PredictorMode, run.Fingerprint.String(), run.Duration.Milliseconds(),
		run.CreatedAt.Time().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if resultCSV != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO qc_run_results (run_id, result_csv) VALUES (?, ?)`,
			run.ID.String(), resultCSV,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run result: %w", err)
		}
	}

	return tx.Commit()
}

func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*qc.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, mode, target, row_count,
			under_count, within_count, over_count, unscored_count,
			predictor_mode, fingerprint, duration_ms, created_at
		FROM qc_runs WHERE id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("run", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return row.toDomain(), nil
}

func (r *runRepository) GetResult(ctx context.Context, id core.RunID) ([]byte, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload,
		`SELECT result_csv FROM qc_run_results WHERE run_id = ?`, id.String())
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("run result", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run result: %w", err)
	}
	return payload, nil
}

func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*qc.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, mode, target, row_count,
			under_count, within_count, over_count, unscored_count,
			predictor_mode, fingerprint, duration_ms, created_at
		FROM qc_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*qc.Run, len(rows))
	for i := range rows {
		runs[i] = rows[i].toDomain()
	}
	return runs, nil
}

func (r *runRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// results cascade on foreign keys, delete explicitly anyway in case
	// the pragma is off for this connection
	_, err = tx.ExecContext(ctx, `
		DELETE FROM qc_run_results WHERE run_id NOT IN (
			SELECT id FROM qc_runs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune run results: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM qc_runs WHERE id NOT IN (
			SELECT id FROM qc_runs ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}

	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return pruned, tx.Commit()
}
