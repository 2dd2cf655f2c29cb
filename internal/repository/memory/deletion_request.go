package memory

import (
	"context"
	"fmt"
	"sort"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
)

type deletionRequestRepository struct {
	store *Store
}

func (r *deletionRequestRepository) Create(ctx context.Context, request *models.DeletionRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Same invariant the postgres partial unique index enforces: at most
	// one PENDING request per note.
	for _, existing := range r.store.requests {
		if existing.NoteID == request.NoteID && existing.Status == models.RequestPending {
			return &domain.DuplicateRequestError{NotePublicID: fmt.Sprintf("%d", request.NoteID)}
		}
	}

	r.store.nextRequestID++
	request.ID = r.store.nextRequestID
	r.store.requests[request.ID] = *request
	return nil
}

func (r *deletionRequestRepository) GetByPublicID(ctx context.Context, publicID string) (*models.DeletionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, request := range r.store.requests {
		if request.PublicID == publicID {
			found := request
			return &found, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "deletion request", ID: publicID}
}

func (r *deletionRequestRepository) Update(ctx context.Context, request *models.DeletionRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.requests[request.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "deletion request", ID: fmt.Sprintf("%d", request.ID)}
	}

	if stored.LockVersion != request.LockVersion {
		return &domain.ConcurrentModificationError{Resource: "deletion request", ID: fmt.Sprintf("%d", request.ID)}
	}

	request.LockVersion++
	r.store.requests[request.ID] = *request
	return nil
}

func (r *deletionRequestRepository) ExistsPendingForNote(ctx context.Context, noteID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, request := range r.store.requests {
		if request.NoteID == noteID && request.Status == models.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *deletionRequestRepository) ListPending(ctx context.Context, limit, offset int) ([]models.DeletionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.DeletionRequest{}
	for _, request := range r.store.requests {
		if request.Status == models.RequestPending {
			matched = append(matched, request)
		}
	}

	// Oldest first, the review queue order.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
			return matched[i].RequestedAt.Before(matched[j].RequestedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return page(matched, limit, offset), nil
}

func (r *deletionRequestRepository) ListByFilters(ctx context.Context, filter notesRepo.DeletionFilter) ([]models.DeletionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.DeletionRequest{}
	for _, request := range r.store.requests {
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if filter.RequesterID != 0 && request.RequesterID != filter.RequesterID {
			continue
		}
		if !filter.From.IsZero() && request.RequestedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && request.RequestedAt.After(filter.To) {
			continue
		}
		matched = append(matched, request)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
			return matched[i].RequestedAt.After(matched[j].RequestedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), nil
}
