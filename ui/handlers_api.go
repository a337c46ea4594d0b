package ui

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// JSON mirrors of the lookup fragments, for scripted use

func (a *App) handleAPISectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": a.catalog.Sectors(),
	})
}

func (a *App) handleAPISubsectors(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sector":     sector,
		"subsectors": a.catalog.Subsectors(sector),
	})
}

func (a *App) handleAPIMSIC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sector := q.Get("sector")
	subsector := q.Get("subsector")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sector":    sector,
		"subsector": subsector,
		"codes":     a.catalog.MSICCodes(sector, subsector),
	})
}

func (a *App) handleAPIStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"states": a.catalog.States(),
	})
}

func (a *App) handleAPIDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":     state,
		"districts": a.catalog.Districts(state),
	})
}

type apiRun struct {
	ID            string `json:"id"`
	Mode          string `json:"mode"`
	Target        string `json:"target"`
	RowCount      int    `json:"row_count"`
	Under         int    `json:"under"`
	Within        int    `json:"within"`
	Over          int    `json:"over"`
	Unscored      int    `json:"unscored"`
	PredictorMode string `json:"predictor_mode"`
	DurationMs    int64  `json:"duration_ms"`
	CreatedAt     string `json:"created_at"`
}

// handleAPIRuns lists recent run history as JSON
func (a *App) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.service.RecentRuns(r.Context(), a.config.HistoryLimit)
	if err != nil {
		log.WithError(err).Error("failed to list recent runs")
		writeJSONError(w, err)
		return
	}

	out := make([]apiRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, apiRun{
			ID:            string(run.ID),
			Mode:          string(run.Mode),
			Target:        string(run.Target),
			RowCount:      run.RowCount,
			Under:         run.Summary.Under,
			Within:        run.Summary.Within,
			Over:          run.Summary.Over,
			Unscored:      run.Summary.Unscored,
			PredictorMode: run.PredictorMode,
			DurationMs:    run.Duration.Milliseconds(),
			CreatedAt:     run.CreatedAt.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  out,
		"count": len(out),
	})
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
