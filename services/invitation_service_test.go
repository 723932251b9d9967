package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"coupleswipe_server/models"
	"coupleswipe_server/store"

	"github.com/go-playground/assert/v2"
)

func newInvitationService(ttl time.Duration) (*InvitationService, *store.Memory) {
	m := store.NewMemory()
	return &InvitationService{Store: m, TTL: ttl}, m
}

func collectStatus(t *testing.T, watcher *StatusWatcher, want string) []string {
	t.Helper()
	var seen []string
	deadline := time.After(2 * time.Second)
	for {
		select {
		case status, ok := <-watcher.C:
			if !ok {
				t.Fatalf("status stream closed before %q, saw %v", want, seen)
			}
			seen = append(seen, status)
			if status == want {
				return seen
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %q, saw %v", want, seen)
		}
	}
}

func TestCreateInvitationRejectsSelfInviteRegardlessOfCasing(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	_, err := svc.Create(context.Background(), "Alice@Example.com", "alice@example.COM", "Movies", nil)
	assert.Equal(t, errors.Is(err, models.ErrSelfInvite), true)
}

func TestCreateInvitationRequiresIdentity(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	_, err := svc.Create(context.Background(), "", "bob@example.com", "Movies", nil)
	assert.Equal(t, errors.Is(err, models.ErrUnauthenticated), true)
}

func TestCreateInvitationRejectsDuplicatePending(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	assert.Equal(t, err, nil)

	_, err = svc.Create(ctx, "alice@example.com", "Bob@Example.com", "Movies", nil)
	assert.Equal(t, errors.Is(err, models.ErrDuplicatePending), true)

	// the reverse direction is a different ordered pair and is allowed
	_, err = svc.Create(ctx, "bob@example.com", "alice@example.com", "Movies", nil)
	assert.Equal(t, err, nil)
}

func TestCreateInvitationStoresNormalizedEmailsAndFilters(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Alice@Example.com", "BOB@example.com", "Movies",
		map[string][]string{"Genre": {"Action"}})
	assert.Equal(t, err, nil)

	invitation, err := svc.Get(ctx, id)
	assert.Equal(t, err, nil)
	assert.Equal(t, invitation.InviterEmail, "alice@example.com")
	assert.Equal(t, invitation.InviteeEmail, "bob@example.com")
	assert.Equal(t, invitation.Status, models.InvitationStatusPending)
	assert.Equal(t, invitation.Filters["Genre"], []string{"Action"})
}

func TestRespondTransitionsOnceAndOnlyOnce(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	ctx := context.Background()

	id, _ := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)

	assert.Equal(t, svc.Respond(ctx, id, true), nil)
	invitation, _ := svc.Get(ctx, id)
	assert.Equal(t, invitation.Status, models.InvitationStatusAccepted)

	// a second respond must not change stored status
	err := svc.Respond(ctx, id, false)
	assert.Equal(t, errors.Is(err, models.ErrAlreadyResolved), true)
	invitation, _ = svc.Get(ctx, id)
	assert.Equal(t, invitation.Status, models.InvitationStatusAccepted)
}

func TestRespondDecline(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	ctx := context.Background()

	id, _ := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	assert.Equal(t, svc.Respond(ctx, id, false), nil)
	invitation, _ := svc.Get(ctx, id)
	assert.Equal(t, invitation.Status, models.InvitationStatusDeclined)
}

func TestRespondUnknownInvitation(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	err := svc.Respond(context.Background(), "nope", true)
	assert.Equal(t, errors.Is(err, models.ErrNotFound), true)
}

func TestListenStatusSeesAcceptance(t *testing.T) {
	svc, _ := newInvitationService(time.Minute)
	ctx := context.Background()

	id, _ := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	watcher := svc.ListenStatus(id)
	defer watcher.Cancel()

	assert.Equal(t, svc.Respond(ctx, id, true), nil)
	seen := collectStatus(t, watcher, models.InvitationStatusAccepted)
	assert.Equal(t, seen[0], models.InvitationStatusPending)
}

func TestInvitationExpiresAndIsSweptAway(t *testing.T) {
	svc, _ := newInvitationService(60 * time.Millisecond)
	ctx := context.Background()

	id, _ := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	watcher := svc.ListenStatus(id)
	defer watcher.Cancel()

	collectStatus(t, watcher, models.InvitationStatusExpired)

	// the sweep deletes the underlying document
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := svc.Get(ctx, id); errors.Is(err, models.ErrNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired invitation document was never deleted")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// responses after expiry are rejected
	err := svc.Respond(ctx, id, true)
	assert.Equal(t, errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrAlreadyResolved), true)
}

func TestListPendingForSkipsExpired(t *testing.T) {
	svc, _ := newInvitationService(40 * time.Millisecond)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice@example.com", "bob@example.com", "Movies", nil)
	assert.Equal(t, err, nil)

	pending, err := svc.ListPendingFor(ctx, "BOB@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(pending), 1)

	time.Sleep(80 * time.Millisecond)
	pending, err = svc.ListPendingFor(ctx, "bob@example.com")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(pending), 0)
}
