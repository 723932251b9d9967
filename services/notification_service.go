package services

import (
	"sync"

	"coupleswipe_server/auth"
	"coupleswipe_server/models"
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// Notification event types.
const (
	NotificationInvitationReceived = "invitationReceived"
	NotificationGameSessionStarted = "gameSessionStarted"
)

// Notification is one in-process event republished from the store for the
// client layer to consume.
type Notification struct {
	Type          string `json:"type"`
	InvitationID  string `json:"invitationId,omitempty"`
	GameSessionID string `json:"gameSessionId,omitempty"`
	CategoryName  string `json:"categoryName,omitempty"`
	InviterEmail  string `json:"inviterEmail"`
}

// NotificationService opens per-identity relays that watch the store for
// invitations and sessions addressed to that identity.
type NotificationService struct {
	Store store.Store
}

// Relay holds the two live subscriptions backing one consumer. Stop is
// idempotent; a consumer must stop its previous relay before starting a
// replacement, so at most one live subscription exists per logical concern.
type Relay struct {
	C <-chan Notification

	invitations *store.Subscription
	sessions    *store.Subscription
	stopOnce    sync.Once
	done        chan struct{}
}

// Stop cancels both subscriptions and ends the event stream.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		r.invitations.Cancel()
		r.sessions.Cancel()
		close(r.done)
	})
}

// StartRelay opens a relay for the given identity. Events are emitted only
// for documents newly appearing in the watched result sets; modifications
// and removals never produce a notification.
func (n *NotificationService) StartRelay(identity string) (*Relay, error) {
	email := auth.NormalizeEmail(identity)
	if email == "" {
		return nil, models.ErrUnauthenticated
	}

	invitations := n.Store.Subscribe(models.InvitationsCollection, []store.Where{
		{Field: "inviteeEmail", Value: email},
		{Field: "status", Value: models.InvitationStatusPending},
	})
	sessions := n.Store.Subscribe(models.GameSessionsCollection, []store.Where{
		{Field: "inviteeEmail", Value: email},
		{Field: "status", Value: models.SessionStatusActive},
	})

	out := make(chan Notification, 16)
	relay := &Relay{
		C:           out,
		invitations: invitations,
		sessions:    sessions,
		done:        make(chan struct{}),
	}

	go func() {
		defer close(out)
		invEvents := invitations.Events()
		sessEvents := sessions.Events()
		for invEvents != nil || sessEvents != nil {
			select {
			case snap, ok := <-invEvents:
				if !ok {
					invEvents = nil
					continue
				}
				for _, change := range snap.Changes {
					if change.Kind != store.ChangeAdded {
						continue
					}
					relay.emit(out, Notification{
						Type:         NotificationInvitationReceived,
						InvitationID: change.Doc.ID,
						CategoryName: utils.ExtractString(change.Doc.Fields, "categoryName"),
						InviterEmail: utils.ExtractString(change.Doc.Fields, "inviterEmail"),
					})
				}
			case snap, ok := <-sessEvents:
				if !ok {
					sessEvents = nil
					continue
				}
				for _, change := range snap.Changes {
					if change.Kind != store.ChangeAdded {
						continue
					}
					relay.emit(out, Notification{
						Type:          NotificationGameSessionStarted,
						GameSessionID: change.Doc.ID,
						CategoryName:  utils.ExtractString(change.Doc.Fields, "categoryName"),
						InviterEmail:  utils.ExtractString(change.Doc.Fields, "inviterEmail"),
					})
				}
			case <-relay.done:
				return
			}
		}
	}()

	return relay, nil
}

func (r *Relay) emit(out chan<- Notification, event Notification) {
	select {
	case out <- event:
	case <-r.done:
	}
}
