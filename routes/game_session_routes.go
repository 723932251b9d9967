package routes

import (
	"coupleswipe_server/auth"
	"coupleswipe_server/controllers"
	"coupleswipe_server/middleware"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterGameSessionRoutes registers session and swipe routes under `/api/sessions`
func RegisterGameSessionRoutes(router *mux.Router, sessionService *services.GameSessionService, swipeService *services.SwipeService, tokens *auth.TokenService, limiter *middleware.RateLimiter) {
	sessionController := &controllers.GameSessionController{Sessions: sessionService}
	swipeController := &controllers.SwipeController{Swipes: swipeService}

	sessionRouter := router.PathPrefix("/api/sessions").Subrouter()
	sessionRouter.Use(tokens.Middleware, limiter.Handler)
	sessionRouter.HandleFunc("", sessionController.StartSessionHandler).Methods("POST")
	sessionRouter.HandleFunc("/{gameSessionId}", sessionController.GetSessionHandler).Methods("GET")
	sessionRouter.HandleFunc("/{gameSessionId}/movies", sessionController.SessionMoviesHandler).Methods("GET")
	sessionRouter.HandleFunc("/{gameSessionId}/finish", sessionController.FinishHandler).Methods("POST")
	sessionRouter.HandleFunc("/{gameSessionId}/result", sessionController.ResultHandler).Methods("GET")
	sessionRouter.HandleFunc("/{gameSessionId}/swipes", swipeController.RecordSwipeHandler).Methods("POST")
}
