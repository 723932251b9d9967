package controllers

import (
	"encoding/json"
	"net/http"

	"coupleswipe_server/auth"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// GameSessionController handles HTTP requests for game sessions and their
// match results.
type GameSessionController struct {
	Sessions *services.GameSessionService
}

type startSessionRequest struct {
	InvitationID string `json:"invitationId"`
}

func (c *GameSessionController) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Identity(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	var request startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	gameSessionID, err := c.Sessions.Start(r.Context(), request.InvitationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"gameSessionId": gameSessionID})
}

func (c *GameSessionController) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := c.Sessions.Get(r.Context(), mux.Vars(r)["gameSessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (c *GameSessionController) SessionMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := c.Sessions.MovieList(r.Context(), mux.Vars(r)["gameSessionId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// FinishHandler marks the caller finished and immediately reports the match
// outcome as this participant currently sees it.
func (c *GameSessionController) FinishHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	gameSessionID := mux.Vars(r)["gameSessionId"]

	if err := c.Sessions.MarkFinished(r.Context(), gameSessionID, identity); err != nil {
		writeError(w, err)
		return
	}
	outcome, err := c.Sessions.Resolve(r.Context(), gameSessionID, identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// ResultHandler reports the current match outcome without changing state.
func (c *GameSessionController) ResultHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	outcome, err := c.Sessions.Resolve(r.Context(), mux.Vars(r)["gameSessionId"], identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
