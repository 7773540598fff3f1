package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"timesheet.reports/internal/auth"
	"timesheet.reports/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps the core error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case core.KindValidation:
		status = http.StatusBadRequest
	case core.KindNotFound:
		status = http.StatusNotFound
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("kind", kind.String()).Str("path", r.URL.Path).Msg("Request failed")
	}
	writeError(w, status, core.MessageOf(err))
}

// ownerID returns the authenticated caller, writing a 401 when there is none.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return "", false
	}
	return claims.Subject, true
}
