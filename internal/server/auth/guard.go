package auth

import "github.com/dmorris/notedly/internal/server/models"

// Action is the mutation being authorized.
type Action int

const (
	ActionUpdate Action = iota
	ActionDelete
)

// Decision is the three-way outcome of an authorization check. Missing
// authentication and failed ownership are distinct outcomes and must stay
// distinct all the way to the response.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// CanMutate decides whether identity may perform action on note.
//
// An empty identity means the caller is not signed in. A nil note only
// checks authentication; note absence is the caller's not-found concern,
// not the guard's. Otherwise only the note's author is allowed, regardless
// of how valid the caller's token is.
func CanMutate(identity string, note *models.Note, action Action) Decision {
	if identity == "" {
		return DenyUnauthenticated
	}
	if note == nil {
		return Allow
	}
	if note.AuthorID != identity {
		return DenyForbidden
	}
	return Allow
}
