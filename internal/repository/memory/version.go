package memory

import (
	"context"
	"fmt"
	"sort"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
)

type versionRepository struct {
	store *Store
}

func (r *versionRepository) Insert(ctx context.Context, version *models.Version) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextVersionID++
	version.ID = r.store.nextVersionID
	r.store.versions = append(r.store.versions, *version)
	return nil
}

func (r *versionRepository) ClearCurrent(ctx context.Context, noteID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.versions {
		if r.store.versions[i].NoteID == noteID {
			r.store.versions[i].IsCurrent = false
		}
	}
	return nil
}

func (r *versionRepository) ListByNote(ctx context.Context, noteID int64) ([]models.Version, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := []models.Version{}
	for _, v := range r.store.versions {
		if v.NoteID == noteID {
			result = append(result, v)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].VersionNumber > result[j].VersionNumber
	})

	return result, nil
}

func (r *versionRepository) GetByNumber(ctx context.Context, noteID int64, versionNumber int) (*models.Version, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, v := range r.store.versions {
		if v.NoteID == noteID && v.VersionNumber == versionNumber {
			found := v
			return &found, nil
		}
	}
	return nil, &domain.NotFoundError{
		Resource: "note version",
		ID:       fmt.Sprintf("%d/v%d", noteID, versionNumber),
	}
}
