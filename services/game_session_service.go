package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"coupleswipe_server/auth"
	"coupleswipe_server/models"
	"coupleswipe_server/store"
	"coupleswipe_server/utils"

	"github.com/google/uuid"
)

// MovieProvider fetches movie records for the query parameters derived from
// an invitation's filter selections.
type MovieProvider interface {
	DiscoverMovies(ctx context.Context, params map[string]string) ([]models.Movie, error)
}

// FilterParams translates stored filter selections into provider query
// parameters.
type FilterParams func(filters map[string][]string) map[string]string

// Match outcome statuses returned by Resolve.
const (
	MatchWaiting = "waiting"
	MatchFound   = "matched"
	MatchNone    = "none"
)

// MatchOutcome is what a participant learns when it asks for the session
// result.
type MatchOutcome struct {
	Status string        `json:"status"`
	Movie  *models.Movie `json:"movie,omitempty"`
}

// GameSessionService creates game sessions from accepted invitations,
// tracks per-user completion and elects the matched movie.
type GameSessionService struct {
	Store         store.Store
	Movies        MovieProvider
	Swipes        *SwipeService
	ConvertFilter FilterParams
}

// Start turns an accepted invitation into a live game session: it fetches
// the movies matching the invitation's filters, persists them as an
// immutable list and then writes the session document. The writes are
// sequential; a failure partway leaves no session behind.
func (s *GameSessionService) Start(ctx context.Context, invitationID string) (string, error) {
	fields, err := s.Store.Get(ctx, models.InvitationsCollection, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", models.ErrNotFound
		}
		return "", err
	}
	invitation := models.InvitationFromFields(invitationID, fields)
	if invitation.Status != models.InvitationStatusAccepted {
		return "", fmt.Errorf("invitation %s is %s, not accepted", invitationID, invitation.Status)
	}

	params := s.ConvertFilter(invitation.Filters)
	movies, err := s.Movies.DiscoverMovies(ctx, params)
	if err != nil {
		return "", err
	}
	if len(movies) == 0 {
		return "", &models.ProviderError{Message: "no movies matched the selected filters"}
	}

	movieListID := uuid.New().String()
	movieList := models.MovieListCollection(movieListID)
	for _, movie := range movies {
		if err := s.Store.Set(ctx, movieList, movie.ID, movie.Fields()); err != nil {
			return "", err
		}
	}

	session := models.GameSession{
		ID:            uuid.New().String(),
		InviterEmail:  invitation.InviterEmail,
		InviteeEmail:  invitation.InviteeEmail,
		MovieListID:   movieListID,
		CategoryName:  invitation.CategoryName,
		Status:        models.SessionStatusActive,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
		FinishedUsers: []string{},
	}
	if err := s.Store.Set(ctx, models.GameSessionsCollection, session.ID, session.Fields()); err != nil {
		return "", err
	}
	log.Printf("Game session %s created for %s / %s with %d movies", session.ID, session.InviterEmail, session.InviteeEmail, len(movies))
	return session.ID, nil
}

// Get returns a session by id.
func (s *GameSessionService) Get(ctx context.Context, gameSessionID string) (models.GameSession, error) {
	fields, err := s.Store.Get(ctx, models.GameSessionsCollection, gameSessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.GameSession{}, models.ErrNotFound
		}
		return models.GameSession{}, err
	}
	return models.GameSessionFromFields(gameSessionID, fields), nil
}

// MovieList returns the session's immutable movie list.
func (s *GameSessionService) MovieList(ctx context.Context, gameSessionID string) ([]models.Movie, error) {
	session, err := s.Get(ctx, gameSessionID)
	if err != nil {
		return nil, err
	}
	docs, err := s.Store.Query(ctx, models.MovieListCollection(session.MovieListID), nil)
	if err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(docs))
	for _, doc := range docs {
		movies = append(movies, models.MovieFromFields(doc.ID, doc.Fields))
	}
	return movies, nil
}

// MarkFinished adds a user to the session's finished set. The update is an
// optimistic read-then-conditional-write loop so the set only ever grows,
// whatever the other participant writes concurrently. Calling it twice for
// the same user is a no-op.
func (s *GameSessionService) MarkFinished(ctx context.Context, gameSessionID, userEmail string) error {
	email := auth.NormalizeEmail(userEmail)
	if email == "" {
		return models.ErrUnauthenticated
	}
	for attempt := 0; attempt < 5; attempt++ {
		fields, err := s.Store.Get(ctx, models.GameSessionsCollection, gameSessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		finished := utils.ExtractStringSlice(fields, "finishedUsers")
		already := false
		for _, f := range finished {
			if f == email {
				already = true
			}
		}
		if already {
			return nil
		}
		// The condition uses the raw stored value, not the extracted copy,
		// so it compares equal whatever shape the store hands back.
		err = s.Store.ConditionalWrite(ctx, models.GameSessionsCollection, gameSessionID,
			store.Condition{Field: "finishedUsers", Op: store.CondEquals, Value: fields["finishedUsers"]},
			store.Fields{"finishedUsers": append(finished, email)})
		if errors.Is(err, store.ErrConditionFailed) {
			continue // concurrent update, re-read and retry
		}
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	return fmt.Errorf("session %s: finished set kept changing, giving up", gameSessionID)
}

// Resolve reports the match outcome as seen by one participant. Once both
// users are finished, the common likes are intersected; if any exist, the
// inviter side alone elects one uniformly at random and writes it with a
// conditional write guarded on selectedMatch being absent, making the
// election first-writer-wins. The invitee never elects; it observes the
// elected value. An already-set selectedMatch is always reused, never
// overwritten.
func (s *GameSessionService) Resolve(ctx context.Context, gameSessionID, asUserEmail string) (MatchOutcome, error) {
	email := auth.NormalizeEmail(asUserEmail)
	session, err := s.Get(ctx, gameSessionID)
	if err != nil {
		return MatchOutcome{}, err
	}

	if session.SelectedMatch != "" {
		return s.matchedOutcome(ctx, session, session.SelectedMatch)
	}
	if !session.BothFinished() {
		return MatchOutcome{Status: MatchWaiting}, nil
	}

	common, err := s.commonLikes(ctx, session)
	if err != nil {
		return MatchOutcome{}, err
	}
	if len(common) == 0 {
		return MatchOutcome{Status: MatchNone}, nil
	}

	if email != session.InviterEmail {
		// Election is the inviter's job; everyone else waits for the
		// write to land.
		return MatchOutcome{Status: MatchWaiting}, nil
	}

	elected := common[rand.Intn(len(common))]
	err = s.Store.ConditionalWrite(ctx, models.GameSessionsCollection, gameSessionID,
		store.Condition{Field: "selectedMatch", Op: store.CondAbsent},
		store.Fields{"selectedMatch": elected})
	if errors.Is(err, store.ErrConditionFailed) {
		// A concurrent election landed first; use its value.
		session, err = s.Get(ctx, gameSessionID)
		if err != nil {
			return MatchOutcome{}, err
		}
		return s.matchedOutcome(ctx, session, session.SelectedMatch)
	}
	if err != nil {
		return MatchOutcome{}, err
	}
	log.Printf("Game session %s matched movie %s", gameSessionID, elected)
	return s.matchedOutcome(ctx, session, elected)
}

// SessionWatcher is a cancelable stream of session snapshots, for a
// foregrounded game screen that wants push-style updates.
type SessionWatcher struct {
	C   <-chan models.GameSession
	sub *store.Subscription
}

func (w *SessionWatcher) Cancel() { w.sub.Cancel() }

// Watch streams the session document as it changes.
func (s *GameSessionService) Watch(gameSessionID string) *SessionWatcher {
	sub := s.Store.Subscribe(models.GameSessionsCollection, []store.Where{
		{Field: "id", Value: gameSessionID},
	})
	out := make(chan models.GameSession, 8)
	go func() {
		defer close(out)
		for snap := range sub.Events() {
			for _, doc := range snap.Docs {
				if doc.ID == gameSessionID {
					out <- models.GameSessionFromFields(doc.ID, doc.Fields)
				}
			}
		}
	}()
	return &SessionWatcher{C: out, sub: sub}
}

func (s *GameSessionService) commonLikes(ctx context.Context, session models.GameSession) ([]string, error) {
	swipes, err := s.Swipes.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	inviterLikes := map[string]bool{}
	inviteeLikes := map[string]bool{}
	for _, swipe := range swipes {
		if !swipe.Liked {
			continue
		}
		switch swipe.UserEmail {
		case session.InviterEmail:
			inviterLikes[swipe.MovieID] = true
		case session.InviteeEmail:
			inviteeLikes[swipe.MovieID] = true
		}
	}
	var common []string
	for movieID := range inviterLikes {
		if inviteeLikes[movieID] {
			common = append(common, movieID)
		}
	}
	return common, nil
}

func (s *GameSessionService) matchedOutcome(ctx context.Context, session models.GameSession, movieID string) (MatchOutcome, error) {
	fields, err := s.Store.Get(ctx, models.MovieListCollection(session.MovieListID), movieID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MatchOutcome{}, models.ErrNotFound
		}
		return MatchOutcome{}, err
	}
	movie := models.MovieFromFields(movieID, fields)
	return MatchOutcome{Status: MatchFound, Movie: &movie}, nil
}
