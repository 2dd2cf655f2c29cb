package memory

import (
	"context"
	"fmt"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.PublicID == publicID {
			user := u
			return &user, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: publicID}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "user", ID: email}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("user %s already exists: %w", user.Email, domain.ErrValidation)
		}
	}

	r.store.nextUserID++
	user.ID = r.store.nextUserID
	r.store.users = append(r.store.users, *user)
	return nil
}
