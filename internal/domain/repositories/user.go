package repositories

import (
	"context"

	"studynotes/internal/domain/models"
)

// UserRepository is the authenticated-user lookup the core consumes.
// Account issuance and lifecycle live outside this service.
type UserRepository interface {
	GetByPublicID(ctx context.Context, publicID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create exists for seeding and tests only.
	Create(ctx context.Context, user *models.User) error
}
