package ui

import (
	"html/template"
	"net/http"
	"strings"

	"beqc/app"
	"beqc/domain/qc"
	"beqc/domain/survey"
	apperrors "beqc/internal/errors"
)

// handleSinglePage renders the single-record check form
func (a *App) handleSinglePage(w http.ResponseWriter, r *http.Request) {
	target := survey.TargetOutput
	data := map[string]interface{}{
		"Title":    "Single check",
		"Active":   "single",
		"Version":  a.config.Version,
		"Targets":  targetOptions(),
		"Target":   string(target),
		"Sectors":  a.catalog.Sectors(),
		"States":   a.catalog.States(),
		"Features": featureFields(target),
	}
	a.renderTemplate(w, "single.html", data)
}

// handleSingleRun scores one submitted record
func (a *App) handleSingleRun(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderError(w, apperrors.InvalidInput("malformed form submission"))
		return
	}

	record, err := recordFromForm(r)
	if err != nil {
		a.renderError(w, err)
		return
	}

	result, err := a.service.RunSingle(r.Context(), app.SingleRequest{Record: record})
	if err != nil {
		a.renderError(w, err)
		return
	}

	data := singleResultView(record, result)
	if isHTMX(r) {
		a.renderTemplate(w, "frag_single_result", data)
		return
	}
	a.renderTemplate(w, "single_result.html", map[string]interface{}{
		"Title":   "Check result",
		"Active":  "single",
		"Version": a.config.Version,
		"Result":  data,
	})
}

// recordFromForm assembles a survey record from the check form
func recordFromForm(r *http.Request) (survey.Record, error) {
	target, err := survey.ParseTarget(r.FormValue("target"))
	if err != nil {
		return survey.Record{}, apperrors.ValidationError("choose a target indicator")
	}

	record := survey.Record{
		Sector:    strings.TrimSpace(r.FormValue("sector")),
		Subsector: strings.TrimSpace(r.FormValue("subsector")),
		MSIC:      strings.TrimSpace(r.FormValue("msic")),
		State:     strings.TrimSpace(r.FormValue("state")),
		District:  strings.TrimSpace(r.FormValue("district")),
		Target:    target,
		Values:    survey.NumMap{},
	}

	for _, feature := range target.Features() {
		raw := strings.TrimSpace(r.FormValue("val_" + feature))
		if raw == "" {
			return survey.Record{}, apperrors.ValidationError("enter a value for " + feature)
		}
		v, err := survey.ParseValue(feature, raw)
		if err != nil {
			return survey.Record{}, apperrors.ValidationError(feature + ": " + err.Error())
		}
		record.Values[feature] = v
	}
	return record, nil
}

type cellView struct {
	Column string
	Value  string
	IsFlag bool
}

func singleResultView(record survey.Record, result *app.SingleResult) map[string]interface{} {
	flagCol := qc.FlagColumn(record.Target)
	cells := make([]cellView, 0, len(result.Table.Columns))
	for _, col := range result.Table.Columns {
		cells = append(cells, cellView{Column: col, Value: result.Table.Cell(0, col), IsFlag: col == flagCol})
	}

	return map[string]interface{}{
		"Target":     record.Target.DisplayName(),
		"Flag":       string(result.Flag),
		"FlagLabel":  result.Flag.Label(),
		"FlagClass":  result.Flag.CSSClass(),
		"OutOfRange": result.Flag.OutOfRange(),
		"Actual":     survey.FormatValue(string(record.Target), result.Actual),
		"Low":        chartNum(result.Band.Low),
		"Med":        chartNum(result.Band.Median),
		"Up":         chartNum(result.Band.Up),
		"RangeChart": rangeChart(result.Band, result.Actual, result.Flag),
		"InputChart": inputBarChart(record.Target, record.Values),
		"Cells":      cells,
		"RunID":      string(result.Run.ID),
		"Elapsed":    result.Run.Duration.String(),
		"Predictor":  result.Run.PredictorMode,
	}
}

// featureFields builds the numeric input descriptors for a target
func featureFields(target survey.Target) []featureField {
	features := target.Features()
	fields := make([]featureField, 0, len(features))
	for _, f := range features {
		isCount := f == string(survey.TargetEmployees)
		step := "0.01"
		if isCount {
			step = "1"
		}
		fields = append(fields, featureField{
			Column:  f,
			Name:    "val_" + f,
			Step:    template.HTMLAttr(`step="` + step + `"`),
			IsLast:  f == string(target),
			IsCount: isCount,
		})
	}
	return fields
}

type featureField struct {
	Column  string
	Name    string
	Step    template.HTMLAttr
	IsLast  bool
	IsCount bool
}
