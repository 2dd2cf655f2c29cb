package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
)

type noteRepository struct {
	store *Store
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextNoteID++
	note.ID = r.store.nextNoteID
	r.store.notes[note.ID] = *note
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	note, ok := r.store.notes[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", id)}
	}
	return &note, nil
}

func (r *noteRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, note := range r.store.notes {
		if note.PublicID == publicID {
			found := note
			return &found, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "note", ID: publicID}
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.notes[note.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", note.ID)}
	}

	// Compare-and-swap on the lock token, like the conditional UPDATE in
	// the postgres repository.
	if stored.LockVersion != note.LockVersion {
		return &domain.ConcurrentModificationError{Resource: "note", ID: fmt.Sprintf("%d", note.ID)}
	}

	note.LockVersion++
	r.store.notes[note.ID] = *note
	return nil
}

func (r *noteRepository) IncrementVote(ctx context.Context, id int64, vote models.VoteKind) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	note, ok := r.store.notes[id]
	if !ok {
		return 0, &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", id)}
	}

	var count int
	switch vote {
	case models.VoteDislike:
		note.Dislikes++
		count = note.Dislikes
	default:
		note.Likes++
		count = note.Likes
	}
	r.store.notes[id] = note
	return count, nil
}

func (r *noteRepository) ListByUploader(ctx context.Context, uploaderID int64, status *models.Status, limit, offset int) ([]models.Note, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.Note{}
	for _, note := range r.store.notes {
		if note.UploaderID != uploaderID {
			continue
		}
		if status != nil && note.Status != *status {
			continue
		}
		matched = append(matched, note)
	}

	sort.Slice(matched, func(i, j int) bool {
		return touchedAt(&matched[i]).After(touchedAt(&matched[j]))
	})

	return page(matched, limit, offset), nil
}

func touchedAt(note *models.Note) time.Time {
	if note.UpdatedAt != nil {
		return *note.UpdatedAt
	}
	return note.CreatedAt
}
