package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"studynotes/internal/config"
	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	"studynotes/internal/domain/repositories"
	notesRepo "studynotes/internal/domain/repositories/notes"
	services "studynotes/internal/domain/services/notes"
)

type documentLifecycle struct {
	noteRepo  notesRepo.NoteRepository
	versions  services.VersionStore
	resolver  services.PermissionResolver
	audit     services.AuditTrail
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentLifecycle creates the note lifecycle service.
func NewDocumentLifecycle(
	noteRepo notesRepo.NoteRepository,
	versions services.VersionStore,
	resolver services.PermissionResolver,
	audit services.AuditTrail,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentLifecycle {
	return &documentLifecycle{
		noteRepo:  noteRepo,
		versions:  versions,
		resolver:  resolver,
		audit:     audit,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *documentLifecycle) Create(ctx context.Context, actor *models.User, req *services.CreateNoteRequest) (*notesModels.Note, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	size := int64(len(req.Content))
	if size > config.MaxNoteContentBytes {
		return nil, &domain.ContentTooLargeError{SizeBytes: size, MaxBytes: config.MaxNoteContentBytes}
	}

	folderPath := req.Folder.Path()
	if err := s.resolver.Assert(ctx, actor, folderPath, notesModels.CapabilityWrite); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := &notesModels.Note{
		PublicID:       uuid.NewString(),
		Title:          req.Title,
		Folder:         req.Folder,
		Content:        req.Content,
		SizeBytes:      size,
		CurrentVersion: 1,
		Status:         notesModels.StatusDraft,
		UploaderID:     actor.ID,
		UploaderEmail:  actor.Email,
		UploaderName:   actor.Name,
		CreatedAt:      now,
	}

	if req.PublishImmediately {
		if err := note.Transition(notesModels.StatusPublished); err != nil {
			return nil, err
		}
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.noteRepo.Create(txCtx, note); err != nil {
			return err
		}
		if _, err := s.versions.Snapshot(txCtx, note, actor, req.ChangeSummary); err != nil {
			return err
		}
		_, err := s.audit.Record(txCtx, services.AuditEntry{
			Action:      notesModels.ActionNoteCreated,
			Actor:       actor,
			TargetType:  "note",
			TargetID:    note.PublicID,
			Description: fmt.Sprintf("created note %q in %s", note.Title, folderPath),
			NewState:    string(note.Status),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created",
		"public_id", note.PublicID,
		"folder_path", folderPath,
		"status", note.Status,
		"size_bytes", note.SizeBytes,
	)

	return note, nil
}

func (s *documentLifecycle) Update(ctx context.Context, actor *models.User, notePublicID string, req *services.UpdateNoteRequest) (*notesModels.Note, error) {
	if err := s.validateUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	note, err := s.noteRepo.GetByPublicID(ctx, notePublicID)
	if err != nil {
		return nil, err
	}

	// The original uploader may always edit; anyone else needs MANAGE on
	// the note's folder.
	if !note.IsOwnedBy(actor.ID) {
		if err := s.resolver.Assert(ctx, actor, note.Folder.Path(), notesModels.CapabilityManage); err != nil {
			return nil, err
		}
	}

	previousTitle := note.Title
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		size := int64(len(*req.Content))
		if size > config.MaxNoteContentBytes {
			return nil, &domain.ContentTooLargeError{SizeBytes: size, MaxBytes: config.MaxNoteContentBytes}
		}
		note.Content = *req.Content
		note.SizeBytes = size
	}

	// The caller's token from its last read, not the one just loaded:
	// this is what makes a stale concurrent update fail instead of
	// silently clobbering.
	note.LockVersion = req.LockVersion
	note.CurrentVersion++
	now := time.Now().UTC()
	note.UpdatedAt = &now

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.noteRepo.Update(txCtx, note); err != nil {
			return err
		}
		if _, err := s.versions.Snapshot(txCtx, note, actor, req.ChangeSummary); err != nil {
			return err
		}
		_, err := s.audit.Record(txCtx, services.AuditEntry{
			Action:        notesModels.ActionNoteUpdated,
			Actor:         actor,
			TargetType:    "note",
			TargetID:      note.PublicID,
			Description:   fmt.Sprintf("updated note to version %d", note.CurrentVersion),
			PreviousState: previousTitle,
			NewState:      note.Title,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note updated",
		"public_id", note.PublicID,
		"version", note.CurrentVersion,
	)

	return note, nil
}

func (s *documentLifecycle) Publish(ctx context.Context, actor *models.User, notePublicID string) (*notesModels.Note, error) {
	note, err := s.noteRepo.GetByPublicID(ctx, notePublicID)
	if err != nil {
		return nil, err
	}

	if !note.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, &domain.AccessDeniedError{FolderPath: note.Folder.Path()}
	}
	if note.Status != notesModels.StatusDraft {
		return nil, &domain.InvalidNoteStatusError{
			Status:   string(note.Status),
			Required: string(notesModels.StatusDraft),
		}
	}

	return s.transition(ctx, actor, note, notesModels.StatusPublished, notesModels.ActionNotePublished)
}

func (s *documentLifecycle) Archive(ctx context.Context, actor *models.User, notePublicID string) (*notesModels.Note, error) {
	note, err := s.noteRepo.GetByPublicID(ctx, notePublicID)
	if err != nil {
		return nil, err
	}

	if !note.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, &domain.AccessDeniedError{FolderPath: note.Folder.Path()}
	}

	return s.transition(ctx, actor, note, notesModels.StatusArchived, notesModels.ActionNoteArchived)
}

// Vote bumps a feedback counter on a published note. Votes are anonymous
// tallies, not audited facts, and do not touch the note's lock token.
func (s *documentLifecycle) Vote(ctx context.Context, actor *models.User, notePublicID string, vote notesModels.VoteKind) (int, error) {
	if !vote.Valid() {
		return 0, fmt.Errorf("%w: unknown vote kind %q", domain.ErrValidation, vote)
	}

	note, err := s.noteRepo.GetByPublicID(ctx, notePublicID)
	if err != nil {
		return 0, err
	}

	if !note.IsOwnedBy(actor.ID) && !actor.IsAdmin() {
		if err := s.resolver.Assert(ctx, actor, note.Folder.Path(), notesModels.CapabilityRead); err != nil {
			return 0, err
		}
	}
	if note.Status != notesModels.StatusPublished {
		return 0, &domain.InvalidNoteStatusError{
			Status:   string(note.Status),
			Required: string(notesModels.StatusPublished),
		}
	}

	count, err := s.noteRepo.IncrementVote(ctx, note.ID, vote)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("note vote recorded",
		"public_id", note.PublicID,
		"vote", vote,
		"count", count,
	)
	return count, nil
}

// transition performs a validated status transition inside one unit of
// work, with the audit fact carrying before/after status.
func (s *documentLifecycle) transition(ctx context.Context, actor *models.User, note *notesModels.Note, target notesModels.Status, action notesModels.AuditAction) (*notesModels.Note, error) {
	previous := note.Status
	if err := note.Transition(target); err != nil {
		return nil, err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.noteRepo.Update(txCtx, note); err != nil {
			return err
		}
		_, err := s.audit.Record(txCtx, services.AuditEntry{
			Action:        action,
			Actor:         actor,
			TargetType:    "note",
			TargetID:      note.PublicID,
			Description:   fmt.Sprintf("note moved from %s to %s", previous, target),
			PreviousState: string(previous),
			NewState:      string(target),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note transitioned",
		"public_id", note.PublicID,
		"from", previous,
		"to", target,
	)

	return note, nil
}

func (s *documentLifecycle) FindByPublicID(ctx context.Context, publicID string) (*notesModels.Note, error) {
	return s.noteRepo.GetByPublicID(ctx, publicID)
}

func (s *documentLifecycle) ListByOwner(ctx context.Context, ownerID int64, status *notesModels.Status, limit, offset int) ([]notesModels.Note, error) {
	if limit <= 0 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.noteRepo.ListByUploader(ctx, ownerID, status, limit, offset)
}

func (s *documentLifecycle) validateCreate(req *services.CreateNoteRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxNoteTitleLength),
		),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.ChangeSummary, validation.Length(0, config.MaxChangeSummaryLength)),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&req.Folder,
		validation.Field(&req.Folder.Department, validation.Required),
		validation.Field(&req.Folder.Year, validation.Required),
		validation.Field(&req.Folder.Subject, validation.Required),
	); err != nil {
		return err
	}

	if len(req.Folder.Path()) > config.MaxFolderPathLength {
		return fmt.Errorf("folder path exceeds %d characters", config.MaxFolderPathLength)
	}
	return nil
}

func (s *documentLifecycle) validateUpdate(req *services.UpdateNoteRequest) error {
	if req.Title == nil && req.Content == nil {
		return fmt.Errorf("patch must change at least one of title, content")
	}
	if req.Title != nil {
		if err := validation.Validate(*req.Title,
			validation.Required,
			validation.Length(1, config.MaxNoteTitleLength),
		); err != nil {
			return fmt.Errorf("title: %v", err)
		}
	}
	return validation.Validate(req.ChangeSummary, validation.Length(0, config.MaxChangeSummaryLength))
}
