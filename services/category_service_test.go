package services

import (
	"context"
	"errors"
	"testing"

	"coupleswipe_server/models"
	"coupleswipe_server/store"

	"github.com/go-playground/assert/v2"
)

func TestCategoryCreateListGet(t *testing.T) {
	svc := &CategoryService{Store: store.NewMemory()}
	ctx := context.Background()

	id, err := svc.Create(ctx, models.Category{
		Name: "Movies",
		Filters: []models.FilterDefinition{
			{Name: "Genre", Options: []string{"Action", "Comedy"}},
			{Name: "MinimumRating", Options: []string{"6", "7.5"}},
		},
	})
	assert.Equal(t, err, nil)

	category, err := svc.Get(ctx, id)
	assert.Equal(t, err, nil)
	assert.Equal(t, category.Name, "Movies")
	assert.Equal(t, len(category.Filters), 2)

	categories, err := svc.List(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(categories), 1)

	_, err = svc.Get(ctx, "missing")
	assert.Equal(t, errors.Is(err, models.ErrNotFound), true)
}

func TestCategoryCreateRequiresName(t *testing.T) {
	svc := &CategoryService{Store: store.NewMemory()}
	_, err := svc.Create(context.Background(), models.Category{})
	assert.NotEqual(t, err, nil)
}
