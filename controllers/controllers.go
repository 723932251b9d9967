package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"coupleswipe_server/models"
)

// HealthCheckHandler reports service liveness.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler greets the root path.
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to CoupleSwipe"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

// statusForError maps the domain error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSelfInvite):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicatePending), errors.Is(err, models.ErrAlreadyResolved):
		return http.StatusConflict
	}
	var provider *models.ProviderError
	if errors.As(err, &provider) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
