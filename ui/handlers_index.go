package ui

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"beqc/domain/qc"
	"beqc/domain/survey"
)

// handleIndex renders the dashboard with catalog stats and recent runs
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	stats := a.catalog.Stats()

	runs, err := a.service.RecentRuns(r.Context(), a.config.HistoryLimit)
	if err != nil {
		log.WithError(err).Error("failed to list recent runs")
		runs = nil
	}

	data := map[string]interface{}{
		"Title":        "BE QC",
		"Active":       "home",
		"Version":      a.config.Version,
		"Targets":      targetOptions(),
		"Sectors":      stats.Sectors,
		"MSICRows":     stats.MSICRows,
		"States":       stats.States,
		"Districts":    stats.Districts,
		"Runs":         runViews(runs),
		"HasRuns":      len(runs) > 0,
		"HistoryLimit": a.config.HistoryLimit,
	}
	a.renderTemplate(w, "index.html", data)
}

// handleAbout renders the methodology page from embedded markdown
func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":   "Methodology",
		"Active":  "about",
		"Version": a.config.Version,
		"Body":    a.aboutHTML(),
	}
	a.renderTemplate(w, "about.html", data)
}

type targetOption struct {
	Value   string
	Label   string
	IsCount bool
}

func targetOptions() []targetOption {
	targets := survey.AllTargets()
	options := make([]targetOption, 0, len(targets))
	for _, t := range targets {
		options = append(options, targetOption{
			Value:   string(t),
			Label:   t.DisplayName(),
			IsCount: t.IsCount(),
		})
	}
	return options
}

type runView struct {
	ID         string
	Mode       string
	Target     string
	RowCount   int
	OutOfRange int
	Unscored   int
	Predictor  string
	Elapsed    string
	CreatedAt  string
	IsBatch    bool
}

func runViews(runs []*qc.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		target, err := survey.ParseTarget(string(run.Target))
		label := string(run.Target)
		if err == nil {
			label = target.DisplayName()
		}
		views = append(views, runView{
			ID:         string(run.ID),
			Mode:       string(run.Mode),
			Target:     label,
			RowCount:   run.RowCount,
			OutOfRange: run.Summary.OutOfRange(),
			Unscored:   run.Summary.Unscored,
			Predictor:  run.PredictorMode,
			Elapsed:    run.Duration.String(),
			CreatedAt:  run.CreatedAt.Time().Format("2006-01-02 15:04:05"),
			IsBatch:    run.Mode == qc.ModeBatch,
		})
	}
	return views
}
