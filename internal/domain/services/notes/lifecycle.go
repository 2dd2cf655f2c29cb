package notes

import (
	"context"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
)

// CreateNoteRequest carries the input for creating a note.
type CreateNoteRequest struct {
	Title              string             `json:"title"`
	Folder             notesModels.Folder `json:"folder"`
	Content            string             `json:"content"`
	PublishImmediately bool               `json:"publish_immediately"`
	ChangeSummary      string             `json:"change_summary"`
}

// UpdateNoteRequest carries a partial patch for a note. Nil pointer fields
// are left unchanged. LockVersion is the optimistic token from the caller's
// last read; a stale token fails with ConcurrentModification.
type UpdateNoteRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	ChangeSummary string  `json:"change_summary"`
	LockVersion   int64   `json:"lock_version"`
}

// DocumentLifecycle owns the note state machine. All note mutations in the
// system flow through it.
type DocumentLifecycle interface {
	Create(ctx context.Context, actor *models.User, req *CreateNoteRequest) (*notesModels.Note, error)
	Update(ctx context.Context, actor *models.User, notePublicID string, req *UpdateNoteRequest) (*notesModels.Note, error)
	Publish(ctx context.Context, actor *models.User, notePublicID string) (*notesModels.Note, error)
	Archive(ctx context.Context, actor *models.User, notePublicID string) (*notesModels.Note, error)
	Vote(ctx context.Context, actor *models.User, notePublicID string, vote notesModels.VoteKind) (int, error)
	FindByPublicID(ctx context.Context, publicID string) (*notesModels.Note, error)
	ListByOwner(ctx context.Context, ownerID int64, status *notesModels.Status, limit, offset int) ([]notesModels.Note, error)
}
