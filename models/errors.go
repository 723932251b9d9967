package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means no identity is available for the caller.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound means a referenced document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSelfInvite rejects an invitation whose inviter and invitee are the
	// same identity, compared case-insensitively.
	ErrSelfInvite = errors.New("you cannot invite yourself")
	// ErrDuplicatePending rejects a second pending invitation for the same
	// inviter/invitee pair.
	ErrDuplicatePending = errors.New("a pending invitation for this person already exists")
	// ErrAlreadyResolved rejects a response to an invitation that has left
	// the pending state.
	ErrAlreadyResolved = errors.New("invitation already resolved")
)

// ProviderError reports a movie provider fetch failure.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("movie provider: %s (status %d)", e.Message, e.StatusCode)
	}
	return "movie provider: " + e.Message
}
