package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"coupleswipe_server/auth"
)

// AuthController issues the bearer tokens clients authenticate with.
type AuthController struct {
	Tokens *auth.TokenService
}

type tokenRequest struct {
	Email string `json:"email"`
}

func (c *AuthController) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var request tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	email := auth.NormalizeEmail(request.Email)
	if email == "" || !strings.Contains(email, "@") {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}

	token, err := c.Tokens.Issue(email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "email": email})
}
