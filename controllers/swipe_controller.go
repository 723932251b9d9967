package controllers

import (
	"encoding/json"
	"net/http"

	"coupleswipe_server/auth"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// SwipeController records like/dislike decisions.
type SwipeController struct {
	Swipes *services.SwipeService
}

type recordSwipeRequest struct {
	MovieID string `json:"movieId"`
	Liked   bool   `json:"liked"`
}

// RecordSwipeHandler accepts a swipe and persists it in the background.
// Recording is best-effort, so the handler acknowledges without waiting.
func (c *SwipeController) RecordSwipeHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var request recordSwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if request.MovieID == "" {
		http.Error(w, "movieId is required", http.StatusBadRequest)
		return
	}

	c.Swipes.RecordAsync(mux.Vars(r)["gameSessionId"], identity, request.MovieID, request.Liked)
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Swipe recorded"})
}
