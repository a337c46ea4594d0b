package ui

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"beqc/domain/core"
	apperrors "beqc/internal/errors"
)

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.WithField("template", templateName).WithError(err).Error("template render failed")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// renderError writes the shared error fragment with a status derived
// from the error's code
func (a *App) renderError(w http.ResponseWriter, err error) {
	message := "Something went wrong"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	} else if core.IsNotFoundError(err) {
		message = "Not found"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusForError(err))
	if terr := a.templates.ExecuteTemplate(w, "frag_error", map[string]interface{}{"Message": message}); terr != nil {
		log.WithError(terr).Error("error fragment render failed")
	}
}

func statusForError(err error) int {
	if core.IsNotFoundError(err) {
		return http.StatusNotFound
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeValidationError, apperrors.CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case apperrors.CodeUploadRejected:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodePredictorError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("json encode failed")
	}
}

func writeJSONError(w http.ResponseWriter, err error) {
	message := err.Error()
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	writeJSON(w, statusForError(err), map[string]string{"error": message})
}

// isHTMX reports whether the request came from an HTMX swap
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
