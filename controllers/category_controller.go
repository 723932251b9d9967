package controllers

import (
	"encoding/json"
	"net/http"

	"coupleswipe_server/models"
	"coupleswipe_server/services"

	"github.com/gorilla/mux"
)

// CategoryController serves the category reference data.
type CategoryController struct {
	Categories *services.CategoryService
}

func (c *CategoryController) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (c *CategoryController) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category, err := c.Categories.Get(r.Context(), mux.Vars(r)["categoryId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (c *CategoryController) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	categoryID, err := c.Categories.Create(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"categoryId": categoryID})
}
