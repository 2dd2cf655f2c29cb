package notes

import (
	"context"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
)

// AuditEntry is the caller-supplied part of an audit record. Correlation id
// and client context are filled in from the ambient request context.
type AuditEntry struct {
	Action        notesModels.AuditAction
	Actor         *models.User
	TargetType    string
	TargetID      string
	Description   string
	PreviousState string
	NewState      string
}

// AuditTrail records append-only facts about actions. There is no update
// or delete surface by design.
type AuditTrail interface {
	// Record persists the fact in its own durability boundary and returns
	// it. A failure here is an error for the caller to handle.
	Record(ctx context.Context, entry AuditEntry) (*notesModels.AuditRecord, error)

	// RecordBestEffort is the fire-and-forget variant for non-critical
	// paths: failures are logged, never propagated.
	RecordBestEffort(ctx context.Context, entry AuditEntry)

	Query(ctx context.Context, filter notesModels.AuditFilter) ([]notesModels.AuditRecord, error)
}
