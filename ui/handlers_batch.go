package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"beqc/adapters/tabular"
	"beqc/app"
	"beqc/domain/core"
	"beqc/domain/qc"
	"beqc/domain/survey"
	apperrors "beqc/internal/errors"
)

// maxUploadBytes caps batch uploads at 50 MB
const maxUploadBytes = 50 << 20

// previewRows and resultRows bound how much of a table the pages show;
// the download always carries everything.
const (
	previewRows = 8
	resultRows  = 100
)

// handleBatchPage renders the batch upload form
func (a *App) handleBatchPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":   "Batch check",
		"Active":  "batch",
		"Version": a.config.Version,
		"Targets": targetOptions(),
		"MaxMB":   maxUploadBytes >> 20,
	}
	a.renderTemplate(w, "batch.html", data)
}

// handleBatchPreview parses an upload and returns the preview fragment
func (a *App) handleBatchPreview(w http.ResponseWriter, r *http.Request) {
	table, err := a.readUpload(w, r)
	if err != nil {
		a.renderError(w, err)
		return
	}

	summaries := tabular.Summarize(table)
	rows := make([][]string, 0, previewRows)
	for i := 0; i < table.NumRows() && i < previewRows; i++ {
		row := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			row = append(row, table.Cell(i, col))
		}
		rows = append(rows, row)
	}

	a.renderTemplate(w, "frag_batch_preview", map[string]interface{}{
		"Columns":   table.Columns,
		"Rows":      rows,
		"RowCount":  table.NumRows(),
		"Truncated": table.NumRows() > previewRows,
		"Summaries": summaries,
	})
}

// handleBatchRun scores an uploaded table for the chosen target
func (a *App) handleBatchRun(w http.ResponseWriter, r *http.Request) {
	table, err := a.readUpload(w, r)
	if err != nil {
		a.renderError(w, err)
		return
	}

	target, err := survey.ParseTarget(r.FormValue("target"))
	if err != nil {
		a.renderError(w, apperrors.ValidationError("choose a target indicator"))
		return
	}

	result, err := a.service.RunBatch(r.Context(), app.BatchRequest{Table: table, Target: target})
	if err != nil {
		a.renderError(w, err)
		return
	}

	a.renderTemplate(w, "batch_result.html", map[string]interface{}{
		"Title":   "Batch result",
		"Active":  "batch",
		"Version": a.config.Version,
		"Result":  batchResultView(target, result),
	})
}

// handleBatchDownload streams a stored batch result as CSV
func (a *App) handleBatchDownload(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	run, payload, err := a.service.Export(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		log.WithField("run_id", id).WithError(err).Error("export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	if run.Mode != qc.ModeBatch {
		http.Error(w, "run has no downloadable result", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="batch_qc_results.csv"`)
	w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
	if _, err := w.Write(payload); err != nil {
		log.WithField("run_id", id).WithError(err).Warn("download interrupted")
	}
}

// readUpload extracts the batch file from a multipart form
func (a *App) readUpload(w http.ResponseWriter, r *http.Request) (*tabular.Table, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apperrors.UploadRejected(fmt.Sprintf("upload rejected: files are capped at %d MB", maxUploadBytes>>20))
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apperrors.UploadRejected("attach a .csv or .xlsx file")
	}
	defer file.Close()

	table, err := tabular.ReadUpload(file, header.Filename)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeUploadRejected, err)
	}
	return table, nil
}

type batchRowView struct {
	Cells     []string
	FlagClass string
}

func batchResultView(target survey.Target, result *app.BatchResult) map[string]interface{} {
	flagCol := qc.FlagColumn(target)
	flagIdx := -1
	for i, col := range result.Table.Columns {
		if col == flagCol {
			flagIdx = i
		}
	}

	rows := make([]batchRowView, 0, resultRows)
	for i := 0; i < result.Table.NumRows() && i < resultRows; i++ {
		cells := make([]string, 0, len(result.Table.Columns))
		for _, col := range result.Table.Columns {
			cells = append(cells, result.Table.Cell(i, col))
		}
		rows = append(rows, batchRowView{Cells: cells, FlagClass: result.Flags[i].CSSClass()})
	}

	return map[string]interface{}{
		"Target":       target.DisplayName(),
		"RunID":        string(result.Run.ID),
		"RowCount":     result.Run.RowCount,
		"Under":        result.Summary.Under,
		"Within":       result.Summary.Within,
		"Over":         result.Summary.Over,
		"Unscored":     result.Summary.Unscored,
		"OutOfRange":   result.Summary.OutOfRange(),
		"SummaryChart": summaryChart(result.Summary),
		"Columns":      result.Table.Columns,
		"FlagIdx":      flagIdx,
		"Rows":         rows,
		"Truncated":    result.Table.NumRows() > resultRows,
		"Shown":        len(rows),
		"Elapsed":      result.Run.Duration.String(),
		"Predictor":    result.Run.PredictorMode,
		"Fingerprint":  result.Run.Fingerprint.Short(),
	}
}
