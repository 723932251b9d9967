package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coupleswipe_server/models"
	"coupleswipe_server/store"
	"coupleswipe_server/utils"

	"github.com/go-playground/assert/v2"
)

type fakeMovieProvider struct {
	movies     []models.Movie
	err        error
	lastParams map[string]string
}

func (f *fakeMovieProvider) DiscoverMovies(_ context.Context, params map[string]string) ([]models.Movie, error) {
	f.lastParams = params
	return f.movies, f.err
}

func sampleMovies(ids ...string) []models.Movie {
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, models.Movie{ID: id, Title: "Movie " + id})
	}
	return movies
}

func newGameFixture(t *testing.T, movies []models.Movie) (*GameSessionService, *InvitationService, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	swipes := &SwipeService{Store: m}
	games := &GameSessionService{
		Store:         m,
		Movies:        &fakeMovieProvider{movies: movies},
		Swipes:        swipes,
		ConvertFilter: utils.ConvertFiltersToTMDBParams,
	}
	invitations := &InvitationService{Store: m, TTL: time.Minute}
	return games, invitations, m
}

func acceptedInvitation(t *testing.T, invitations *InvitationService, filters map[string][]string) string {
	t.Helper()
	ctx := context.Background()
	id, err := invitations.Create(ctx, "alice@example.com", "bob@example.com", "Movies", filters)
	assert.Equal(t, err, nil)
	assert.Equal(t, invitations.Respond(ctx, id, true), nil)
	return id
}

func TestStartBuildsSessionAndMovieList(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1", "m2", "m3"))
	ctx := context.Background()

	invitationID := acceptedInvitation(t, invitations, map[string][]string{"MinimumRating": {"7.5"}})
	sessionID, err := games.Start(ctx, invitationID)
	assert.Equal(t, err, nil)

	provider := games.Movies.(*fakeMovieProvider)
	assert.Equal(t, provider.lastParams["vote_average.gte"], "7.5")

	session, err := games.Get(ctx, sessionID)
	assert.Equal(t, err, nil)
	assert.Equal(t, session.InviterEmail, "alice@example.com")
	assert.Equal(t, session.InviteeEmail, "bob@example.com")
	assert.Equal(t, session.Status, models.SessionStatusActive)
	assert.Equal(t, len(session.FinishedUsers), 0)
	assert.Equal(t, session.SelectedMatch, "")

	movies, err := games.MovieList(ctx, sessionID)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(movies), 3)
}

func TestStartRequiresAcceptedInvitation(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1"))
	ctx := context.Background()

	invitationID, err := invitations.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	assert.Equal(t, err, nil)

	_, err = games.Start(ctx, invitationID)
	assert.NotEqual(t, err, nil)

	_, err = games.Start(ctx, "missing")
	assert.Equal(t, errors.Is(err, models.ErrNotFound), true)
}

func TestStartFailsWhenNoMoviesMatch(t *testing.T) {
	games, invitations, _ := newGameFixture(t, nil)
	invitationID := acceptedInvitation(t, invitations, nil)

	_, err := games.Start(context.Background(), invitationID)
	var provErr *models.ProviderError
	assert.Equal(t, errors.As(err, &provErr), true)
}

func TestMarkFinishedGrowsSetOnce(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	assert.Equal(t, games.MarkFinished(ctx, sessionID, "Alice@Example.com"), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)

	session, _ := games.Get(ctx, sessionID)
	assert.Equal(t, session.FinishedUsers, []string{"alice@example.com"})
	assert.Equal(t, session.BothFinished(), false)

	assert.Equal(t, games.MarkFinished(ctx, sessionID, "bob@example.com"), nil)
	session, _ = games.Get(ctx, sessionID)
	assert.Equal(t, len(session.FinishedUsers), 2)
	assert.Equal(t, session.BothFinished(), true)
}

func TestResolveWaitsUntilBothFinished(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	outcome, err := games.Resolve(ctx, sessionID, "alice@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, outcome.Status, MatchWaiting)

	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)
	outcome, err = games.Resolve(ctx, sessionID, "alice@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, outcome.Status, MatchWaiting)
}

func TestResolveElectsTheSingleCommonLike(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1", "m2", "m3"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	swipes := games.Swipes
	assert.Equal(t, swipes.Record(ctx, sessionID, "alice@example.com", "m1", true), nil)
	assert.Equal(t, swipes.Record(ctx, sessionID, "alice@example.com", "m2", false), nil)
	assert.Equal(t, swipes.Record(ctx, sessionID, "bob@example.com", "m1", true), nil)
	assert.Equal(t, swipes.Record(ctx, sessionID, "bob@example.com", "m3", true), nil)

	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "bob@example.com"), nil)

	// the invitee cannot elect; it waits for the inviter's write
	outcome, err := games.Resolve(ctx, sessionID, "bob@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, outcome.Status, MatchWaiting)

	outcome, err = games.Resolve(ctx, sessionID, "alice@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, outcome.Status, MatchFound)
	assert.Equal(t, outcome.Movie.ID, "m1")

	// the invitee now observes the elected movie
	outcome, err = games.Resolve(ctx, sessionID, "bob@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, outcome.Status, MatchFound)
	assert.Equal(t, outcome.Movie.ID, "m1")

	session, _ := games.Get(ctx, sessionID)
	assert.Equal(t, session.SelectedMatch, "m1")
}

func TestResolveNoCommonLikes(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1", "m2"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	swipes := games.Swipes
	assert.Equal(t, swipes.Record(ctx, sessionID, "alice@example.com", "m1", true), nil)
	assert.Equal(t, swipes.Record(ctx, sessionID, "bob@example.com", "m2", true), nil)

	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "bob@example.com"), nil)

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		outcome, err := games.Resolve(ctx, sessionID, email)
		assert.Equal(t, err, nil)
		assert.Equal(t, outcome.Status, MatchNone)
	}

	session, _ := games.Get(ctx, sessionID)
	assert.Equal(t, session.SelectedMatch, "")
}

func TestResolveElectionIsWriteOnce(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1", "m2", "m3", "m4"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	swipes := games.Swipes
	for _, movieID := range []string{"m1", "m2", "m3", "m4"} {
		assert.Equal(t, swipes.Record(ctx, sessionID, "alice@example.com", movieID, true), nil)
		assert.Equal(t, swipes.Record(ctx, sessionID, "bob@example.com", movieID, true), nil)
	}
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "bob@example.com"), nil)

	const racers = 8
	outcomes := make([]MatchOutcome, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := games.Resolve(ctx, sessionID, "alice@example.com")
			if err != nil {
				t.Errorf("resolve %d: %v", i, err)
				return
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	session, _ := games.Get(ctx, sessionID)
	assert.NotEqual(t, session.SelectedMatch, "")
	for _, outcome := range outcomes {
		assert.Equal(t, outcome.Status, MatchFound)
		assert.Equal(t, outcome.Movie.ID, session.SelectedMatch)
	}
}

func TestWatchObservesElectedMatch(t *testing.T) {
	games, invitations, _ := newGameFixture(t, sampleMovies("m1"))
	ctx := context.Background()
	sessionID, _ := games.Start(ctx, acceptedInvitation(t, invitations, nil))

	watcher := games.Watch(sessionID)
	defer watcher.Cancel()

	swipes := games.Swipes
	assert.Equal(t, swipes.Record(ctx, sessionID, "alice@example.com", "m1", true), nil)
	assert.Equal(t, swipes.Record(ctx, sessionID, "bob@example.com", "m1", true), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "alice@example.com"), nil)
	assert.Equal(t, games.MarkFinished(ctx, sessionID, "bob@example.com"), nil)
	_, err := games.Resolve(ctx, sessionID, "alice@example.com")
	assert.Equal(t, err, nil)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case session, ok := <-watcher.C:
			if !ok {
				t.Fatal("session stream closed before the match landed")
			}
			if session.SelectedMatch == "m1" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for selectedMatch on the watch stream")
		}
	}
}
