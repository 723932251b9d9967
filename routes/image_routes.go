package routes

import (
	"coupleswipe_server/auth"
	"coupleswipe_server/controllers"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterImageRoutes registers presigned-URL routes under `/api/images`
func RegisterImageRoutes(router *mux.Router, imageService *services.ImageService, tokens *auth.TokenService) {
	controller := &controllers.ImageController{Images: imageService}

	imageRouter := router.PathPrefix("/api/images").Subrouter()
	imageRouter.Use(tokens.Middleware)
	imageRouter.HandleFunc("/upload-url", controller.UploadURLHandler).Methods("GET")
	imageRouter.HandleFunc("/read-url", controller.ReadURLHandler).Methods("GET")
}
