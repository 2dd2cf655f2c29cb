package notes

import (
	"context"

	models "studynotes/internal/domain/models/notes"
)

// AuditRepository persists append-only audit records. Implementations must
// commit each Insert in its own durability boundary, independent of any
// transaction carried by the context: a later rollback in the caller's
// request must not take the audit fact with it.
type AuditRepository interface {
	Insert(ctx context.Context, record *models.AuditRecord) error
	Query(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error)
}
