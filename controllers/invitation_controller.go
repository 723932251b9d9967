package controllers

import (
	"encoding/json"
	"net/http"

	"coupleswipe_server/auth"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// InvitationController handles HTTP requests for the invitation lifecycle.
type InvitationController struct {
	Invitations *services.InvitationService
}

type createInvitationRequest struct {
	InviteeEmail string              `json:"inviteeEmail"`
	CategoryName string              `json:"categoryName"`
	Filters      map[string][]string `json:"filters"`
}

func (c *InvitationController) CreateInvitationHandler(w http.ResponseWriter, r *http.Request) {
	inviter, err := auth.Identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var request createInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invitationID, err := c.Invitations.Create(r.Context(), inviter, request.InviteeEmail, request.CategoryName, request.Filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"invitationId": invitationID})
}

func (c *InvitationController) GetInvitationHandler(w http.ResponseWriter, r *http.Request) {
	invitation, err := c.Invitations.Get(r.Context(), mux.Vars(r)["invitationId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

// ListPendingHandler returns the caller's pending invitations, for clients
// polling instead of holding a relay connection.
func (c *InvitationController) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.Identity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	invitations, err := c.Invitations.ListPendingFor(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

type respondRequest struct {
	Accepted bool `json:"accepted"`
}

func (c *InvitationController) RespondHandler(w http.ResponseWriter, r *http.Request) {
	var request respondRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.Invitations.Respond(r.Context(), mux.Vars(r)["invitationId"], request.Accepted); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invitation status updated successfully"})
}
