package models

// Invitation statuses. Transitions are pending -> accepted|declined|expired;
// every other state is terminal.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
)

// Game session statuses
const (
	SessionStatusActive = "active"
)

// Top-level collection paths in the document store
const (
	InvitationsCollection  = "invitations"
	GameSessionsCollection = "gameSessions"
	CategoriesCollection   = "categories"
)

// SwipesCollection returns the per-session swipe collection path.
func SwipesCollection(gameSessionID string) string {
	return GameSessionsCollection + "/" + gameSessionID + "/swipes"
}

// MovieListCollection returns the collection path of one immutable movie
// list snapshot.
func MovieListCollection(movieListID string) string {
	return "movieLists/" + movieListID
}
