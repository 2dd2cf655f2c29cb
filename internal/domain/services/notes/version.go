package notes

import (
	"context"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
)

// VersionStore creates and reads immutable version snapshots of a note.
type VersionStore interface {
	// Snapshot records the note's current title/content as the note's
	// current version number, clearing the previous current flag.
	Snapshot(ctx context.Context, note *notesModels.Note, author *models.User, changeSummary string) (*notesModels.Version, error)

	// History returns all versions of a note, newest first.
	History(ctx context.Context, noteID int64) ([]notesModels.Version, error)

	GetVersion(ctx context.Context, noteID int64, versionNumber int) (*notesModels.Version, error)
}
