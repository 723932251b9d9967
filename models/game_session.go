package models

import (
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// GameSession is the shared document one accepted invitation spawns. The
// two invariants the coordinators rely on: FinishedUsers only ever grows,
// and SelectedMatch is write-once.
type GameSession struct {
	ID            string   `json:"id"`
	InviterEmail  string   `json:"inviterEmail"`
	InviteeEmail  string   `json:"inviteeEmail"`
	MovieListID   string   `json:"movieListId"`
	CategoryName  string   `json:"categoryName"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"createdAt"`
	FinishedUsers []string `json:"finishedUsers"`
	SelectedMatch string   `json:"selectedMatch,omitempty"`
}

func (gs GameSession) Fields() store.Fields {
	fields := store.Fields{
		"id":            gs.ID,
		"inviterEmail":  gs.InviterEmail,
		"inviteeEmail":  gs.InviteeEmail,
		"movieListId":   gs.MovieListID,
		"categoryName":  gs.CategoryName,
		"status":        gs.Status,
		"createdAt":     gs.CreatedAt,
		"finishedUsers": gs.FinishedUsers,
	}
	if gs.SelectedMatch != "" {
		fields["selectedMatch"] = gs.SelectedMatch
	}
	return fields
}

func GameSessionFromFields(id string, fields store.Fields) GameSession {
	return GameSession{
		ID:            id,
		InviterEmail:  utils.ExtractString(fields, "inviterEmail"),
		InviteeEmail:  utils.ExtractString(fields, "inviteeEmail"),
		MovieListID:   utils.ExtractString(fields, "movieListId"),
		CategoryName:  utils.ExtractString(fields, "categoryName"),
		Status:        utils.ExtractString(fields, "status"),
		CreatedAt:     utils.ExtractString(fields, "createdAt"),
		FinishedUsers: utils.ExtractStringSlice(fields, "finishedUsers"),
		SelectedMatch: utils.ExtractString(fields, "selectedMatch"),
	}
}

// HasFinished reports whether the given identity already marked this
// session finished.
func (gs GameSession) HasFinished(email string) bool {
	for _, u := range gs.FinishedUsers {
		if u == email {
			return true
		}
	}
	return false
}

// BothFinished reports whether both participants finished swiping.
func (gs GameSession) BothFinished() bool {
	return gs.HasFinished(gs.InviterEmail) && gs.HasFinished(gs.InviteeEmail)
}
