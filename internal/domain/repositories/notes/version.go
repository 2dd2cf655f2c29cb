package notes

import (
	"context"

	models "studynotes/internal/domain/models/notes"
)

// VersionRepository persists immutable note version snapshots.
// There is deliberately no update or delete: history is reconstructed by
// reading all versions for a note, newest first.
type VersionRepository interface {
	Insert(ctx context.Context, version *models.Version) error

	// ClearCurrent drops the is_current flag on all of the note's versions.
	// Called once per snapshot, right before inserting the new current row.
	ClearCurrent(ctx context.Context, noteID int64) error

	ListByNote(ctx context.Context, noteID int64) ([]models.Version, error)
	GetByNumber(ctx context.Context, noteID int64, versionNumber int) (*models.Version, error)
}
