package routes

import (
	"coupleswipe_server/auth"
	"coupleswipe_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes registers the token endpoint under `/api/auth`
func RegisterAuthRoutes(router *mux.Router, tokens *auth.TokenService) {
	controller := &controllers.AuthController{Tokens: tokens}

	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/token", controller.TokenHandler).Methods("POST")
}
