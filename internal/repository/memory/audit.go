package memory

import (
	"context"
	"sort"

	models "studynotes/internal/domain/models/notes"
)

type auditRepository struct {
	store *Store
}

func (r *auditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextAuditID++
	record.ID = r.store.nextAuditID
	r.store.audits = append(r.store.audits, *record)
	return nil
}

func (r *auditRepository) Query(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.AuditRecord{}
	for _, record := range r.store.audits {
		if filter.ActorID != 0 && record.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && record.Action != filter.Action {
			continue
		}
		if filter.TargetType != "" && record.TargetType != filter.TargetType {
			continue
		}
		if filter.TargetID != "" && record.TargetID != filter.TargetID {
			continue
		}
		if !filter.From.IsZero() && record.Timestamp.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && record.Timestamp.After(filter.To) {
			continue
		}
		matched = append(matched, record)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	return page(matched, filter.Limit, filter.Offset), nil
}
