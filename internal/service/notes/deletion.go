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
	"studynotes/internal/requestctx"
)

type deletionWorkflow struct {
	requestRepo notesRepo.DeletionRequestRepository
	noteRepo    notesRepo.NoteRepository
	resolver    services.PermissionResolver
	audit       services.AuditTrail
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewDeletionWorkflow creates the deletion approval workflow service.
func NewDeletionWorkflow(
	requestRepo notesRepo.DeletionRequestRepository,
	noteRepo notesRepo.NoteRepository,
	resolver services.PermissionResolver,
	audit services.AuditTrail,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DeletionWorkflow {
	return &deletionWorkflow{
		requestRepo: requestRepo,
		noteRepo:    noteRepo,
		resolver:    resolver,
		audit:       audit,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *deletionWorkflow) Request(ctx context.Context, teacher *models.User, notePublicID, reason string) (*notesModels.DeletionRequest, error) {
	if err := validation.Validate(reason,
		validation.Required,
		validation.Length(1, config.MaxReasonLength),
	); err != nil {
		return nil, fmt.Errorf("%w: reason: %v", domain.ErrValidation, err)
	}

	note, err := s.noteRepo.GetByPublicID(ctx, notePublicID)
	if err != nil {
		return nil, err
	}

	if !note.IsOwnedBy(teacher.ID) {
		if err := s.resolver.Assert(ctx, teacher, note.Folder.Path(), notesModels.CapabilityDelete); err != nil {
			return nil, err
		}
	}

	// Duplicate check first: a note that already has a pending request sits
	// in DELETE_PENDING, and the caller should see the workflow conflict,
	// not the status precondition.
	exists, err := s.requestRepo.ExistsPendingForNote(ctx, note.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateRequestError{NotePublicID: note.PublicID}
	}

	if note.Status != notesModels.StatusPublished {
		return nil, &domain.InvalidNoteStatusError{
			Status:   string(note.Status),
			Required: string(notesModels.StatusPublished),
		}
	}

	request := &notesModels.DeletionRequest{
		PublicID:       uuid.NewString(),
		NoteID:         note.ID,
		Status:         notesModels.RequestPending,
		Reason:         reason,
		RequesterID:    teacher.ID,
		RequesterEmail: teacher.Email,
		RequesterName:  teacher.Name,
		RequestedAt:    time.Now().UTC(),
	}

	previous := note.Status
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := note.Transition(notesModels.StatusDeletePending); err != nil {
			return err
		}
		if err := s.noteRepo.Update(txCtx, note); err != nil {
			return err
		}
		if err := s.requestRepo.Create(txCtx, request); err != nil {
			return err
		}
		_, err := s.audit.Record(txCtx, services.AuditEntry{
			Action:        notesModels.ActionDeletionRequested,
			Actor:         teacher,
			TargetType:    "deletion_request",
			TargetID:      request.PublicID,
			Description:   fmt.Sprintf("requested deletion of note %s: %s", note.PublicID, reason),
			PreviousState: string(previous),
			NewState:      string(note.Status),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deletion requested",
		"request_id", request.PublicID,
		"note_id", note.PublicID,
		"requester", teacher.ID,
	)

	return request, nil
}

func (s *deletionWorkflow) Approve(ctx context.Context, admin *models.User, requestPublicID string) (*notesModels.DeletionRequest, error) {
	return s.resolve(ctx, admin, requestPublicID, notesModels.RequestApproved, "")
}

func (s *deletionWorkflow) Reject(ctx context.Context, admin *models.User, requestPublicID, reason string) (*notesModels.DeletionRequest, error) {
	if err := validation.Validate(reason,
		validation.Required,
		validation.Length(1, config.MaxReasonLength),
	); err != nil {
		return nil, fmt.Errorf("%w: reason: %v", domain.ErrValidation, err)
	}
	return s.resolve(ctx, admin, requestPublicID, notesModels.RequestRejected, reason)
}

// resolve decides a pending request. Retries carrying the correlation id
// of an earlier, successful resolution replay the stored result without
// writing anything; a second distinct attempt fails with AlreadyResolved.
func (s *deletionWorkflow) resolve(ctx context.Context, admin *models.User, requestPublicID string, target notesModels.RequestStatus, rejectionReason string) (*notesModels.DeletionRequest, error) {
	request, err := s.requestRepo.GetByPublicID(ctx, requestPublicID)
	if err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetByID(ctx, request.NoteID)
	if err != nil {
		return nil, err
	}

	if !admin.IsAdmin() {
		return nil, &domain.AccessDeniedError{FolderPath: note.Folder.Path()}
	}

	idempotencyKey, _ := requestctx.CorrelationID(ctx)

	if request.IsResolved() {
		if request.IdempotencyKey == idempotencyKey && request.Status == target {
			s.logger.Info("deletion resolution replayed",
				"request_id", request.PublicID,
				"status", request.Status,
			)
			return request, nil
		}
		return nil, &domain.AlreadyResolvedError{RequestPublicID: request.PublicID}
	}

	noteTarget := notesModels.StatusDeleted
	action := notesModels.ActionDeletionApproved
	if target == notesModels.RequestRejected {
		noteTarget = notesModels.StatusPublished
		action = notesModels.ActionDeletionRejected
	}

	previous := note.Status
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var resolveErr error
		if target == notesModels.RequestApproved {
			resolveErr = request.Approve(admin.ID, admin.Email, idempotencyKey)
		} else {
			resolveErr = request.Reject(admin.ID, admin.Email, rejectionReason, idempotencyKey)
		}
		if resolveErr != nil {
			return resolveErr
		}

		// First writer wins at the storage layer; the loser of a
		// concurrent resolution race sees ConcurrentModification here.
		if err := s.requestRepo.Update(txCtx, request); err != nil {
			return err
		}

		if err := note.Transition(noteTarget); err != nil {
			return err
		}
		if err := s.noteRepo.Update(txCtx, note); err != nil {
			return err
		}

		_, err := s.audit.Record(txCtx, services.AuditEntry{
			Action:        action,
			Actor:         admin,
			TargetType:    "deletion_request",
			TargetID:      request.PublicID,
			Description:   fmt.Sprintf("deletion request for note %s resolved as %s", note.PublicID, target),
			PreviousState: string(previous),
			NewState:      string(note.Status),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deletion request resolved",
		"request_id", request.PublicID,
		"status", request.Status,
		"note_status", note.Status,
		"resolved_by", admin.ID,
	)

	return request, nil
}

func (s *deletionWorkflow) ListPending(ctx context.Context, limit, offset int) ([]notesModels.DeletionRequest, error) {
	if limit <= 0 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.requestRepo.ListPending(ctx, limit, offset)
}

func (s *deletionWorkflow) ListByFilters(ctx context.Context, filter notesRepo.DeletionFilter) ([]notesModels.DeletionRequest, error) {
	if filter.Limit <= 0 {
		filter.Limit = config.DefaultPageSize
	}
	if filter.Limit > config.MaxPageSize {
		filter.Limit = config.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.requestRepo.ListByFilters(ctx, filter)
}
