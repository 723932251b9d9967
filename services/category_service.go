package services

import (
	"context"
	"errors"
	"fmt"

	"coupleswipe_server/models"
	"coupleswipe_server/store"

	"github.com/google/uuid"
)

// CategoryService serves the read-only reference data describing which
// categories can be played and which filters each one offers.
type CategoryService struct {
	Store store.Store
}

// List returns all available categories.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	docs, err := s.Store.Query(ctx, models.CategoriesCollection, nil)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, models.CategoryFromFields(doc.ID, doc.Fields))
	}
	return categories, nil
}

// Get returns one category by id.
func (s *CategoryService) Get(ctx context.Context, categoryID string) (models.Category, error) {
	fields, err := s.Store.Get(ctx, models.CategoriesCollection, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Category{}, models.ErrNotFound
		}
		return models.Category{}, err
	}
	return models.CategoryFromFields(categoryID, fields), nil
}

// Create adds a category. Used for seeding the reference data.
func (s *CategoryService) Create(ctx context.Context, category models.Category) (string, error) {
	if category.Name == "" {
		return "", fmt.Errorf("category name is required")
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := s.Store.Set(ctx, models.CategoriesCollection, category.ID, category.Fields()); err != nil {
		return "", err
	}
	return category.ID, nil
}
