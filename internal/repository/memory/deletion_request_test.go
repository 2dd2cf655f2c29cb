package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
)

func TestDeletionRequestCreateSinglePending(t *testing.T) {
	store := NewStore()
	repo := store.DeletionRequests()
	ctx := context.Background()

	first := &models.DeletionRequest{
		PublicID:    "req-1",
		NoteID:      7,
		Status:      models.RequestPending,
		Reason:      "duplicate upload",
		RequestedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first request: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	second := &models.DeletionRequest{
		PublicID:    "req-2",
		NoteID:      7,
		Status:      models.RequestPending,
		Reason:      "again",
		RequestedAt: time.Now().UTC(),
	}
	err := repo.Create(ctx, second)
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Fatalf("second pending request for the note: err = %v, want ErrDuplicateRequest", err)
	}
	var dup *domain.DuplicateRequestError
	if !errors.As(err, &dup) || dup.NotePublicID != "7" {
		t.Fatalf("duplicate error should carry the note id, got %+v", err)
	}

	// A second pending request on a different note is fine.
	other := &models.DeletionRequest{
		PublicID:    "req-3",
		NoteID:      8,
		Status:      models.RequestPending,
		Reason:      "stale",
		RequestedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("create request for other note: %v", err)
	}
}
