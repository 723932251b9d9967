package models

import (
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// Swipe records one participant's decision on one movie. Its document id is
// the {userEmail}_{movieId} composite, so re-swiping the same movie simply
// overwrites the prior record (last write wins).
type Swipe struct {
	UserEmail string `json:"userEmail"`
	MovieID   string `json:"movieId"`
	Liked     bool   `json:"liked"`
	Timestamp string `json:"timestamp"`
}

// DocumentID returns the composite key a swipe is stored under.
func (s Swipe) DocumentID() string {
	return s.UserEmail + "_" + s.MovieID
}

func (s Swipe) Fields() store.Fields {
	return store.Fields{
		"userEmail": s.UserEmail,
		"movieId":   s.MovieID,
		"liked":     s.Liked,
		"timestamp": s.Timestamp,
	}
}

func SwipeFromFields(fields store.Fields) Swipe {
	return Swipe{
		UserEmail: utils.ExtractString(fields, "userEmail"),
		MovieID:   utils.ExtractString(fields, "movieId"),
		Liked:     utils.ExtractBool(fields, "liked"),
		Timestamp: utils.ExtractString(fields, "timestamp"),
	}
}
