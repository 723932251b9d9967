package models

import (
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// Invitation is the shared document both participants coordinate through
// while a game is being set up. Emails are stored lower-cased so identity
// comparisons are case-insensitive.
type Invitation struct {
	ID           string              `json:"id"`
	CategoryName string              `json:"categoryName"`
	InviterEmail string              `json:"inviterEmail"`
	InviteeEmail string              `json:"inviteeEmail"`
	Filters      map[string][]string `json:"filters"`
	Status       string              `json:"status"`
	CreatedAt    string              `json:"createdAt"`
	ExpiresAt    string              `json:"expiresAt"`
}

// Fields renders the invitation as a store document body.
func (inv Invitation) Fields() store.Fields {
	return store.Fields{
		"id":           inv.ID,
		"categoryName": inv.CategoryName,
		"inviterEmail": inv.InviterEmail,
		"inviteeEmail": inv.InviteeEmail,
		"filters":      inv.Filters,
		"status":       inv.Status,
		"createdAt":    inv.CreatedAt,
		"expiresAt":    inv.ExpiresAt,
	}
}

// InvitationFromFields rebuilds an invitation from a store document.
func InvitationFromFields(id string, fields store.Fields) Invitation {
	return Invitation{
		ID:           id,
		CategoryName: utils.ExtractString(fields, "categoryName"),
		InviterEmail: utils.ExtractString(fields, "inviterEmail"),
		InviteeEmail: utils.ExtractString(fields, "inviteeEmail"),
		Filters:      utils.ExtractStringSliceMap(fields, "filters"),
		Status:       utils.ExtractString(fields, "status"),
		CreatedAt:    utils.ExtractString(fields, "createdAt"),
		ExpiresAt:    utils.ExtractString(fields, "expiresAt"),
	}
}
