package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"beqc/adapters/tabular"
	"beqc/domain/core"
	"beqc/domain/qc"
	"beqc/domain/survey"
	apperrors "beqc/internal/errors"
	"beqc/internal/metrics"
	"beqc/ports"
)

// QCService orchestrates one QC interaction end to end: validate, score,
// flag, record.
type QCService struct {
	predictor ports.Predictor
	runs      ports.RunRepository
	metrics   *metrics.Metrics
	modelDir  string
	history   bool
}

// Config wires the service
type Config struct {
	ModelDir string
	// History gates recording of single checks; batch runs are always
	// stored because the CSV export reads the stored table.
	History bool
}

// NewQCService creates the QC orchestration service
func NewQCService(predictor ports.Predictor, runs ports.RunRepository, m *metrics.Metrics, config Config) *QCService {
	return &QCService{
		predictor: predictor,
		runs:      runs,
		metrics:   m,
		modelDir:  config.ModelDir,
		history:   config.History,
	}
}

// SingleRequest is one establishment record to check
type SingleRequest struct {
	Record survey.Record
}

// SingleResult is the scored outcome for one record
type SingleResult struct {
	Run    *qc.Run
	Table  *tabular.Table
	Flag   qc.Flag
	Band   qc.Band
	Actual float64
}

// RunSingle validates and scores one record against its target's band
func (s *QCService) RunSingle(ctx context.Context, req SingleRequest) (*SingleResult, error) {
	record := req.Record
	if err := record.Validate(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeValidationError, err)
	}

	table := recordTable(record)
	result, elapsed, err := s.predict(ctx, table)
	if err != nil {
		return nil, err
	}

	summary, err := qc.Annotate(result, record.Target)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodePredictorError, err)
	}

	bc, err := qc.LocateBoundColumns(result.Columns, record.Target)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodePredictorError, err)
	}
	band, okBand := qc.BandForRow(result, 0, bc)
	if !okBand {
		return nil, apperrors.PredictorError(s.predictor.Mode(), core.ErrBoundsNotFound)
	}

	run := qc.NewRun(qc.ModeSingle, record.Target)
	run.RowCount = 1
	run.Summary = summary
	run.PredictorMode = s.predictor.Mode()
	run.Fingerprint = table.Fingerprint()
	run.Duration = elapsed
	s.record(ctx, run, nil, s.history)

	flag := qc.RowFlags(result, record.Target)[0]
	return &SingleResult{
		Run:    run,
		Table:  result,
		Flag:   flag,
		Band:   band,
		Actual: record.Values[string(record.Target)],
	}, nil
}

// BatchRequest is an uploaded table to score for one target
type BatchRequest struct {
	Table  *tabular.Table
	Target survey.Target
}

// BatchResult is the scored outcome for a batch
type BatchResult struct {
	Run     *qc.Run
	Table   *tabular.Table
	Summary qc.FlagSummary
	Flags   []qc.Flag
}

// RunBatch scores an uploaded table and flags it for the chosen target.
// The uploaded schema is the scoring backend's business; no column
// checks happen here beyond basic shape.
func (s *QCService) RunBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if req.Table == nil {
		return nil, apperrors.InvalidInput("no batch table submitted")
	}
	if err := req.Table.Validate(); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	if _, err := survey.ParseTarget(string(req.Target)); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	fingerprint := req.Table.Fingerprint()
	result, elapsed, err := s.predict(ctx, req.Table)
	if err != nil {
		return nil, err
	}
	if result.NumRows() != req.Table.NumRows() {
		return nil, apperrors.PredictorError(s.predictor.Mode(), core.ErrRowCountDrift)
	}

	summary, err := qc.Annotate(result, req.Target)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodePredictorError, err)
	}

	run := qc.NewRun(qc.ModeBatch, req.Target)
	run.RowCount = result.NumRows()
	run.Summary = summary
	run.PredictorMode = s.predictor.Mode()
	run.Fingerprint = fingerprint
	run.Duration = elapsed

	resultCSV, err := tabular.EncodeCSV(result)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode batch result")
	}
	s.record(ctx, run, resultCSV, true)

	return &BatchResult{
		Run:     run,
		Table:   result,
		Summary: summary,
		Flags:   qc.RowFlags(result, req.Target),
	}, nil
}

// ScoreTable scores and annotates a table without recording a run, for
// offline use.
func (s *QCService) ScoreTable(ctx context.Context, table *tabular.Table, target survey.Target) (*tabular.Table, qc.FlagSummary, error) {
	if err := table.Validate(); err != nil {
		return nil, qc.FlagSummary{}, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}
	result, _, err := s.predict(ctx, table)
	if err != nil {
		return nil, qc.FlagSummary{}, err
	}
	summary, err := qc.Annotate(result, target)
	if err != nil {
		return nil, qc.FlagSummary{}, apperrors.WithCode(apperrors.CodePredictorError, err)
	}
	return result, summary, nil
}

// Export returns a stored batch result and its run record
func (s *QCService) Export(ctx context.Context, id core.RunID) (*qc.Run, []byte, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	payload, err := s.runs.GetResult(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, payload, nil
}

// RecentRuns lists the newest recorded runs
func (s *QCService) RecentRuns(ctx context.Context, limit int) ([]*qc.Run, error) {
	return s.runs.ListRecent(ctx, limit)
}

// PruneHistory trims run history to the newest keep entries
func (s *QCService) PruneHistory(ctx context.Context, keep int) (int64, error) {
	return s.runs.Prune(ctx, keep)
}

func (s *QCService) predict(ctx context.Context, table *tabular.Table) (*tabular.Table, time.Duration, error) {
	start := time.Now()
	result, err := s.predictor.Predict(ctx, table, s.modelDir)
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObservePredict(s.predictor.Mode(), err, elapsed)
	}
	if err != nil {
		return nil, elapsed, apperrors.PredictorError(s.predictor.Mode(), err)
	}
	return result, elapsed, nil
}

// record persists a run and feeds the counters. Recording is ancillary
// to the interaction; failures are logged, not surfaced.
func (s *QCService) record(ctx context.Context, run *qc.Run, resultCSV []byte, persist bool) {
	if s.metrics != nil {
		s.metrics.CountRun(string(run.Mode))
		s.metrics.CountFlag(string(qc.FlagUnder), run.Summary.Under)
		s.metrics.CountFlag(string(qc.FlagWithin), run.Summary.Within)
		s.metrics.CountFlag(string(qc.FlagOver), run.Summary.Over)
		s.metrics.CountFlag(string(qc.FlagUnscored), run.Summary.Unscored)
	}
	if !persist || s.runs == nil {
		return
	}
	if err := s.runs.Create(ctx, run, resultCSV); err != nil {
		log.WithFields(log.Fields{
			"run_id": run.ID,
			"mode":   run.Mode,
		}).WithError(err).Error("failed to record run")
	}
}

// recordTable renders a validated record as a one-row table in form order
func recordTable(record survey.Record) *tabular.Table {
	columns := append(survey.CategoricalColumns(), record.Target.Features()...)
	table := tabular.NewTable(columns...)

	row := tabular.Row{
		survey.ColSector:    record.Sector,
		survey.ColSubsector: record.Subsector,
		survey.ColMSIC:      record.MSIC,
		survey.ColState:     record.State,
		survey.ColDistrict:  record.District,
	}
	for col, v := range record.Values {
		row[col] = survey.FormatValue(col, v)
	}
	table.AppendRow(row)
	return table
}
