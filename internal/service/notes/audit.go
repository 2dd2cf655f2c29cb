// Package notes implements the document lifecycle and governance services:
// the note state machine, the folder permission resolver, the two-party
// deletion workflow, version snapshots and the append-only audit trail.
package notes

import (
	"context"
	"log/slog"
	"time"

	"studynotes/internal/config"
	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	services "studynotes/internal/domain/services/notes"
	"studynotes/internal/requestctx"
)

type auditTrail struct {
	auditRepo notesRepo.AuditRepository
	logger    *slog.Logger
}

// NewAuditTrail creates the audit trail service.
func NewAuditTrail(auditRepo notesRepo.AuditRepository, logger *slog.Logger) services.AuditTrail {
	return &auditTrail{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (s *auditTrail) Record(ctx context.Context, entry services.AuditEntry) (*models.AuditRecord, error) {
	correlationID, _ := requestctx.CorrelationID(ctx)
	client := requestctx.Client(ctx)

	record := &models.AuditRecord{
		CorrelationID: correlationID,
		Action:        entry.Action,
		TargetType:    entry.TargetType,
		TargetID:      entry.TargetID,
		Description:   entry.Description,
		PreviousState: entry.PreviousState,
		NewState:      entry.NewState,
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Timestamp:     time.Now().UTC(),
	}

	// Actor identity is copied by value at write time. The trail must read
	// the same actor even if the account is later renamed or disabled.
	if entry.Actor != nil {
		record.ActorID = entry.Actor.ID
		record.ActorEmail = entry.Actor.Email
		record.ActorRole = entry.Actor.Role
	}

	if err := s.auditRepo.Insert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *auditTrail) RecordBestEffort(ctx context.Context, entry services.AuditEntry) {
	if _, err := s.Record(ctx, entry); err != nil {
		s.logger.Error("audit record failed",
			"action", entry.Action,
			"target_type", entry.TargetType,
			"target_id", entry.TargetID,
			"error", err,
		)
	}
}

func (s *auditTrail) Query(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = config.DefaultPageSize
	}
	if filter.Limit > config.MaxPageSize {
		filter.Limit = config.MaxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.auditRepo.Query(ctx, filter)
}
