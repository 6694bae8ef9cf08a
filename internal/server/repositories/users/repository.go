package users

import (
	"context"

	"github.com/dmorris/notedly/internal/server/models"
)

// Repository is the credential store consumed by the user service.
type Repository interface {
	// Create persists a new user. Unique-index collisions on username or
	// email surface as common.ErrorDuplicate.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsernameOrEmail returns the user matching either field. Empty
	// fields never match; no match is common.ErrorNotFound.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}
