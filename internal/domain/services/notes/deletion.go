package notes

import (
	"context"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
)

// DeletionWorkflow owns the two-party deletion approval. Approve and Reject
// are idempotent against retries carrying the same correlation id.
type DeletionWorkflow interface {
	Request(ctx context.Context, teacher *models.User, notePublicID, reason string) (*notesModels.DeletionRequest, error)
	Approve(ctx context.Context, admin *models.User, requestPublicID string) (*notesModels.DeletionRequest, error)
	Reject(ctx context.Context, admin *models.User, requestPublicID, reason string) (*notesModels.DeletionRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]notesModels.DeletionRequest, error)
	ListByFilters(ctx context.Context, filter notesRepo.DeletionFilter) ([]notesModels.DeletionRequest, error)
}
