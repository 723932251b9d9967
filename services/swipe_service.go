package services

import (
	"context"
	"log"
	"time"

	"coupleswipe_server/auth"
	"coupleswipe_server/models"
	"coupleswipe_server/store"
)

// SwipeService persists each participant's like/dislike decisions. Records
// are keyed by (user, movie), so repeating a swipe overwrites the previous
// record rather than accumulating duplicates.
type SwipeService struct {
	Store store.Store
}

// Record upserts one swipe. Last write wins.
func (s *SwipeService) Record(ctx context.Context, gameSessionID, userEmail, movieID string, liked bool) error {
	email := auth.NormalizeEmail(userEmail)
	if email == "" {
		return models.ErrUnauthenticated
	}
	swipe := models.Swipe{
		UserEmail: email,
		MovieID:   movieID,
		Liked:     liked,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	return s.Store.Set(ctx, models.SwipesCollection(gameSessionID), swipe.DocumentID(), swipe.Fields())
}

// RecordAsync records a swipe in the background. Recording is best-effort:
// a failed write degrades match quality but must not break the swiping
// flow, so errors are logged and swallowed.
func (s *SwipeService) RecordAsync(gameSessionID, userEmail, movieID string, liked bool) {
	go func() {
		if err := s.Record(context.Background(), gameSessionID, userEmail, movieID, liked); err != nil {
			log.Printf("Swipe %s/%s by %s failed: %v", gameSessionID, movieID, userEmail, err)
		}
	}()
}

// ListBySession returns every swipe recorded for a session.
func (s *SwipeService) ListBySession(ctx context.Context, gameSessionID string) ([]models.Swipe, error) {
	docs, err := s.Store.Query(ctx, models.SwipesCollection(gameSessionID), nil)
	if err != nil {
		return nil, err
	}
	swipes := make([]models.Swipe, 0, len(docs))
	for _, doc := range docs {
		swipes = append(swipes, models.SwipeFromFields(doc.Fields))
	}
	return swipes, nil
}
