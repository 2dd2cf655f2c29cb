package notes

import (
	"context"
	"time"

	models "studynotes/internal/domain/models/notes"
)

// DeletionFilter narrows a deletion request listing. Nil/zero values mean
// "no constraint".
type DeletionFilter struct {
	Status      *models.RequestStatus
	RequesterID int64
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

// DeletionRequestRepository persists deletion requests. Like notes, Update
// is conditional on the optimistic lock token: the first resolver wins at
// the storage layer and the loser sees a ConcurrentModificationError.
type DeletionRequestRepository interface {
	Create(ctx context.Context, request *models.DeletionRequest) error
	GetByPublicID(ctx context.Context, publicID string) (*models.DeletionRequest, error)
	Update(ctx context.Context, request *models.DeletionRequest) error

	// ExistsPendingForNote backs the "at most one PENDING request per note"
	// invariant check.
	ExistsPendingForNote(ctx context.Context, noteID int64) (bool, error)

	ListPending(ctx context.Context, limit, offset int) ([]models.DeletionRequest, error)
	ListByFilters(ctx context.Context, filter DeletionFilter) ([]models.DeletionRequest, error)
}
