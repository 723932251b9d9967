package services

import (
	"context"
	"errors"
	"testing"

	"coupleswipe_server/models"
	"coupleswipe_server/store"

	"github.com/go-playground/assert/v2"
)

func TestRecordSwipeLastWriteWins(t *testing.T) {
	svc := &SwipeService{Store: store.NewMemory()}
	ctx := context.Background()

	assert.Equal(t, svc.Record(ctx, "s1", "alice@example.com", "m1", true), nil)
	assert.Equal(t, svc.Record(ctx, "s1", "Alice@Example.com", "m1", false), nil)

	swipes, err := svc.ListBySession(ctx, "s1")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(swipes), 1)
	assert.Equal(t, swipes[0].UserEmail, "alice@example.com")
	assert.Equal(t, swipes[0].MovieID, "m1")
	assert.Equal(t, swipes[0].Liked, false)
}

func TestRecordSwipeKeyedPerUserAndMovie(t *testing.T) {
	svc := &SwipeService{Store: store.NewMemory()}
	ctx := context.Background()

	assert.Equal(t, svc.Record(ctx, "s1", "alice@example.com", "m1", true), nil)
	assert.Equal(t, svc.Record(ctx, "s1", "alice@example.com", "m2", true), nil)
	assert.Equal(t, svc.Record(ctx, "s1", "bob@example.com", "m1", true), nil)

	swipes, err := svc.ListBySession(ctx, "s1")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(swipes), 3)

	// swipes are scoped to their session
	other, err := svc.ListBySession(ctx, "s2")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(other), 0)
}

func TestRecordSwipeRequiresIdentity(t *testing.T) {
	svc := &SwipeService{Store: store.NewMemory()}
	err := svc.Record(context.Background(), "s1", "  ", "m1", true)
	assert.Equal(t, errors.Is(err, models.ErrUnauthenticated), true)
}
