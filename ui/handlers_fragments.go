package ui

import (
	"net/http"

	"beqc/domain/survey"
	apperrors "beqc/internal/errors"
)

// Fragment handlers return partial HTML for HTMX swaps on the check
// form. Empty option lists render as an empty select, never an error.

func (a *App) handleFragmentSubsectors(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	a.renderTemplate(w, "frag_options", map[string]interface{}{
		"Placeholder": "Choose a subsector",
		"Options":     a.catalog.Subsectors(sector),
	})
}

func (a *App) handleFragmentMSIC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a.renderTemplate(w, "frag_options", map[string]interface{}{
		"Placeholder": "Choose an MSIC code",
		"Options":     a.catalog.MSICCodes(q.Get("sector"), q.Get("subsector")),
	})
}

func (a *App) handleFragmentDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	a.renderTemplate(w, "frag_options", map[string]interface{}{
		"Placeholder": "Choose a district",
		"Options":     a.catalog.Districts(state),
	})
}

// handleFragmentFeatures re-renders the numeric inputs when the target
// changes
func (a *App) handleFragmentFeatures(w http.ResponseWriter, r *http.Request) {
	target, err := survey.ParseTarget(r.URL.Query().Get("target"))
	if err != nil {
		a.renderError(w, apperrors.ValidationError("unknown target indicator"))
		return
	}
	a.renderTemplate(w, "frag_features", map[string]interface{}{
		"Features": featureFields(target),
	})
}
