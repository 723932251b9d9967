package routes

import (
	"coupleswipe_server/auth"
	"coupleswipe_server/controllers"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterCategoryRoutes registers category routes under `/api/categories`
func RegisterCategoryRoutes(router *mux.Router, categoryService *services.CategoryService, tokens *auth.TokenService) {
	controller := &controllers.CategoryController{Categories: categoryService}

	categoryRouter := router.PathPrefix("/api/categories").Subrouter()
	categoryRouter.Use(tokens.Middleware)
	categoryRouter.HandleFunc("", controller.ListCategoriesHandler).Methods("GET")
	categoryRouter.HandleFunc("", controller.CreateCategoryHandler).Methods("POST")
	categoryRouter.HandleFunc("/{categoryId}", controller.GetCategoryHandler).Methods("GET")
}
