package notes

import (
	"context"

	"github.com/dmorris/notedly/internal/server/models"
)

// Repository is the note store consumed by the note service.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)

	// GetByID returns common.ErrorNotFound when no note has that id.
	GetByID(ctx context.Context, id string) (*models.Note, error)

	List(ctx context.Context) ([]*models.Note, error)

	// UpdateContent replaces the note's content and returns the updated row.
	UpdateContent(ctx context.Context, id, content string) (*models.Note, error)

	// Delete removes the note; a missing row is common.ErrorNotFound.
	Delete(ctx context.Context, id string) error

	// ToggleMembership flips member in the note's favorited set and adjusts
	// the favorite counter by exactly one, as a single atomic statement
	// against the store. It must never be implemented as a read followed by
	// a write; concurrent toggles by different members may not lose updates.
	ToggleMembership(ctx context.Context, id, member string) (*models.Note, error)
}
