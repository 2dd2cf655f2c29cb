package notes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	services "studynotes/internal/domain/services/notes"
)

type versionStore struct {
	versionRepo notesRepo.VersionRepository
	logger      *slog.Logger
}

// NewVersionStore creates the version snapshot service.
func NewVersionStore(versionRepo notesRepo.VersionRepository, logger *slog.Logger) services.VersionStore {
	return &versionStore{
		versionRepo: versionRepo,
		logger:      logger,
	}
}

func (s *versionStore) Snapshot(ctx context.Context, note *notesModels.Note, author *models.User, changeSummary string) (*notesModels.Version, error) {
	// Exactly one version per note carries the current flag. Clear it first,
	// then insert the new row flagged current.
	if err := s.versionRepo.ClearCurrent(ctx, note.ID); err != nil {
		return nil, err
	}

	version := &notesModels.Version{
		NoteID:        note.ID,
		VersionNumber: note.CurrentVersion,
		Title:         note.Title,
		Content:       note.Content,
		SizeBytes:     note.SizeBytes,
		ContentHash:   contentHash(note.Content),
		AuthorID:      author.ID,
		AuthorEmail:   author.Email,
		ChangeSummary: changeSummary,
		IsCurrent:     true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.versionRepo.Insert(ctx, version); err != nil {
		return nil, err
	}

	s.logger.Debug("version snapshot created",
		"note_id", note.ID,
		"version", version.VersionNumber,
		"size_bytes", version.SizeBytes,
	)

	return version, nil
}

func (s *versionStore) History(ctx context.Context, noteID int64) ([]notesModels.Version, error) {
	return s.versionRepo.ListByNote(ctx, noteID)
}

func (s *versionStore) GetVersion(ctx context.Context, noteID int64, versionNumber int) (*notesModels.Version, error) {
	return s.versionRepo.GetByNumber(ctx, noteID, versionNumber)
}

// contentHash is an integrity/dedup fingerprint, not a security measure.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
