package routes

import (
	"coupleswipe_server/auth"
	"coupleswipe_server/controllers"
	"coupleswipe_server/middleware"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterInvitationRoutes registers all invitation routes under `/api/invitations`
func RegisterInvitationRoutes(router *mux.Router, invitationService *services.InvitationService, tokens *auth.TokenService, limiter *middleware.RateLimiter) {
	controller := &controllers.InvitationController{Invitations: invitationService}

	invitationRouter := router.PathPrefix("/api/invitations").Subrouter()
	invitationRouter.Use(tokens.Middleware, limiter.Handler)
	invitationRouter.HandleFunc("", controller.CreateInvitationHandler).Methods("POST")
	invitationRouter.HandleFunc("/pending", controller.ListPendingHandler).Methods("GET")
	invitationRouter.HandleFunc("/{invitationId}", controller.GetInvitationHandler).Methods("GET")
	invitationRouter.HandleFunc("/{invitationId}/respond", controller.RespondHandler).Methods("POST")
}
