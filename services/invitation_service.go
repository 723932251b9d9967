package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"coupleswipe_server/auth"
	"coupleswipe_server/models"
	"coupleswipe_server/store"
	"coupleswipe_server/utils"

	"github.com/google/uuid"
)

// InvitationService owns the invitation lifecycle: creation, expiry and the
// accept/decline transition. Expiry is enforced twice, independently: a
// deferred sweep scheduled at creation time, and a read-time check on every
// status observation. Either one may run first; both are idempotent.
type InvitationService struct {
	Store store.Store
	TTL   time.Duration
	Email *EmailService
}

// Create persists a new pending invitation and schedules its expiry sweep.
// The duplicate check is a point query before the insert; the window between
// check and insert is accepted because a duplicate invitation is a UX
// nuisance, not a correctness hazard.
func (s *InvitationService) Create(ctx context.Context, inviterEmail, inviteeEmail, categoryName string, filters map[string][]string) (string, error) {
	inviter := auth.NormalizeEmail(inviterEmail)
	invitee := auth.NormalizeEmail(inviteeEmail)

	if inviter == "" {
		return "", models.ErrUnauthenticated
	}
	if invitee == "" {
		return "", fmt.Errorf("invitee email is required")
	}
	if inviter == invitee {
		return "", models.ErrSelfInvite
	}

	if err := s.checkDuplicatePending(ctx, inviter, invitee); err != nil {
		return "", err
	}

	if filters == nil {
		filters = map[string][]string{}
	}
	now := time.Now().UTC()
	invitation := models.Invitation{
		ID:           uuid.New().String(),
		CategoryName: categoryName,
		InviterEmail: inviter,
		InviteeEmail: invitee,
		Filters:      filters,
		Status:       models.InvitationStatusPending,
		CreatedAt:    now.Format(time.RFC3339Nano),
		ExpiresAt:    now.Add(s.TTL).Format(time.RFC3339Nano),
	}

	if err := s.Store.Set(ctx, models.InvitationsCollection, invitation.ID, invitation.Fields()); err != nil {
		return "", err
	}
	log.Printf("Invitation %s created: %s -> %s (%s)", invitation.ID, inviter, invitee, categoryName)

	time.AfterFunc(s.TTL, func() { s.sweepExpired(invitation.ID) })

	if s.Email != nil {
		go func() {
			if err := s.Email.SendInvitationEmail(context.Background(), invitee, inviter, categoryName); err != nil {
				log.Printf("Invitation %s: email notification failed: %v", invitation.ID, err)
			}
		}()
	}
	return invitation.ID, nil
}

func (s *InvitationService) checkDuplicatePending(ctx context.Context, inviter, invitee string) error {
	docs, err := s.Store.Query(ctx, models.InvitationsCollection, []store.Where{
		{Field: "inviterEmail", Value: inviter},
		{Field: "inviteeEmail", Value: invitee},
		{Field: "status", Value: models.InvitationStatusPending},
	})
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if s.expired(doc.Fields) {
			// Stale pending record whose sweep never ran; clean it up
			// instead of letting it block a fresh invitation.
			if err := s.Store.Delete(ctx, models.InvitationsCollection, doc.ID); err != nil {
				log.Printf("Invitation %s: cleanup of stale record failed: %v", doc.ID, err)
			}
			continue
		}
		return models.ErrDuplicatePending
	}
	return nil
}

// Get returns an invitation by id.
func (s *InvitationService) Get(ctx context.Context, invitationID string) (models.Invitation, error) {
	fields, err := s.Store.Get(ctx, models.InvitationsCollection, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Invitation{}, models.ErrNotFound
		}
		return models.Invitation{}, err
	}
	return models.InvitationFromFields(invitationID, fields), nil
}

// ListPendingFor returns the pending invitations addressed to an identity,
// for clients that poll instead of holding a relay connection.
func (s *InvitationService) ListPendingFor(ctx context.Context, inviteeEmail string) ([]models.Invitation, error) {
	invitee := auth.NormalizeEmail(inviteeEmail)
	if invitee == "" {
		return nil, models.ErrUnauthenticated
	}
	docs, err := s.Store.Query(ctx, models.InvitationsCollection, []store.Where{
		{Field: "inviteeEmail", Value: invitee},
		{Field: "status", Value: models.InvitationStatusPending},
	})
	if err != nil {
		return nil, err
	}
	invitations := make([]models.Invitation, 0, len(docs))
	for _, doc := range docs {
		if s.expired(doc.Fields) {
			continue
		}
		invitations = append(invitations, models.InvitationFromFields(doc.ID, doc.Fields))
	}
	return invitations, nil
}

// Respond transitions a pending invitation to accepted or declined. The
// transition is guarded by a conditional write on status=pending, so a
// second respond call observes AlreadyResolved and never re-fires.
func (s *InvitationService) Respond(ctx context.Context, invitationID string, accepted bool) error {
	fields, err := s.Store.Get(ctx, models.InvitationsCollection, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrNotFound
		}
		return err
	}
	status := utils.ExtractString(fields, "status")
	if status != models.InvitationStatusPending {
		return models.ErrAlreadyResolved
	}
	if s.expired(fields) {
		s.deleteExpired(ctx, invitationID)
		return models.ErrAlreadyResolved
	}

	newStatus := models.InvitationStatusDeclined
	if accepted {
		newStatus = models.InvitationStatusAccepted
	}
	err = s.Store.ConditionalWrite(ctx, models.InvitationsCollection, invitationID,
		store.Condition{Field: "status", Op: store.CondEquals, Value: models.InvitationStatusPending},
		store.Fields{
			"status":      newStatus,
			"respondedAt": time.Now().UTC().Format(time.RFC3339Nano),
		})
	if errors.Is(err, store.ErrConditionFailed) {
		return models.ErrAlreadyResolved
	}
	if errors.Is(err, store.ErrNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	log.Printf("Invitation %s %s", invitationID, newStatus)
	return nil
}

// StatusWatcher is a cancelable stream of invitation status strings. The
// channel closes after Cancel or once the stream ends.
type StatusWatcher struct {
	C   <-chan string
	sub *store.Subscription
}

func (w *StatusWatcher) Cancel() { w.sub.Cancel() }

// ListenStatus watches one invitation and emits its status on every change.
// A pending invitation observed past its expiry timestamp is emitted as
// expired and opportunistically deleted, independent of the scheduled
// sweep; a deletion observed while still pending is reported the same way.
func (s *InvitationService) ListenStatus(invitationID string) *StatusWatcher {
	sub := s.Store.Subscribe(models.InvitationsCollection, []store.Where{
		{Field: "id", Value: invitationID},
	})
	out := make(chan string, 8)

	go func() {
		defer close(out)
		lastEmitted := ""
		seen := false
		for snap := range sub.Events() {
			status := ""
			var fields store.Fields
			for _, doc := range snap.Docs {
				if doc.ID == invitationID {
					fields = doc.Fields
					status = utils.ExtractString(fields, "status")
				}
			}

			switch {
			case fields == nil:
				// Removed while pending means the expiry sweep got there
				// first; any other removal follows a terminal status.
				if seen && lastEmitted == models.InvitationStatusPending {
					status = models.InvitationStatusExpired
				} else {
					continue
				}
			case status == models.InvitationStatusPending && s.expired(fields):
				status = models.InvitationStatusExpired
				s.deleteExpired(context.Background(), invitationID)
			}

			seen = true
			if status != lastEmitted {
				lastEmitted = status
				out <- status
			}
		}
	}()

	return &StatusWatcher{C: out, sub: sub}
}

// sweepExpired runs once per invitation, TTL after creation. Deleting the
// record is cleanup only: the read-time check already makes an overdue
// pending invitation observable as expired.
func (s *InvitationService) sweepExpired(invitationID string) {
	ctx := context.Background()
	fields, err := s.Store.Get(ctx, models.InvitationsCollection, invitationID)
	if err != nil {
		return
	}
	if utils.ExtractString(fields, "status") != models.InvitationStatusPending {
		return
	}
	s.deleteExpired(ctx, invitationID)
}

func (s *InvitationService) deleteExpired(ctx context.Context, invitationID string) {
	if err := s.Store.Delete(ctx, models.InvitationsCollection, invitationID); err != nil {
		log.Printf("Invitation %s: expiry cleanup failed: %v", invitationID, err)
		return
	}
	log.Printf("Invitation %s expired", invitationID)
}

func (s *InvitationService) expired(fields store.Fields) bool {
	raw := utils.ExtractString(fields, "expiresAt")
	if raw == "" {
		return false
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return false
	}
	return time.Now().After(expiresAt)
}
