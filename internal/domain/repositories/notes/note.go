package notes

import (
	"context"

	models "studynotes/internal/domain/models/notes"
)

// NoteRepository persists notes. Update is conditional on the note's
// optimistic lock token; a stale token surfaces as
// domain.ConcurrentModificationError and writes nothing.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) error
	ListByUploader(ctx context.Context, uploaderID int64, status *models.Status, limit, offset int) ([]models.Note, error)

	// IncrementVote bumps the note's like or dislike counter atomically,
	// outside the lock token, and returns the new count. Concurrent votes
	// never conflict with each other or with content updates.
	IncrementVote(ctx context.Context, id int64, vote models.VoteKind) (int, error)
}
