package notes

import (
	"errors"
	"testing"

	"studynotes/internal/domain"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:         {StatusPublished, StatusArchived},
		StatusPublished:     {StatusDeletePending, StatusArchived},
		StatusDeletePending: {StatusDeleted, StatusPublished},
		StatusDeleted:       {StatusArchived},
		StatusArchived:      {},
	}
	all := []Status{StatusDraft, StatusPublished, StatusDeletePending, StatusDeleted, StatusArchived}

	for from, targets := range allowed {
		permitted := make(map[Status]bool)
		for _, target := range targets {
			permitted[target] = true
		}
		for _, to := range all {
			got := from.CanTransitionTo(to)
			if got != permitted[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, permitted[to])
			}
		}
	}
}

func TestNote_Transition(t *testing.T) {
	t.Run("invalid transition leaves state unchanged", func(t *testing.T) {
		note := &Note{Status: StatusDraft}
		err := note.Transition(StatusDeleted)
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("expected ErrInvalidStateTransition, got %v", err)
		}
		if note.Status != StatusDraft {
			t.Errorf("status changed to %s on failed transition", note.Status)
		}
		if note.PublishedAt != nil || note.DeletedAt != nil {
			t.Error("timestamps stamped on failed transition")
		}
	})

	t.Run("publish stamps timestamp once", func(t *testing.T) {
		note := &Note{Status: StatusDraft}
		if err := note.Transition(StatusPublished); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if note.PublishedAt == nil {
			t.Fatal("PublishedAt not stamped")
		}
		first := *note.PublishedAt

		// DELETE_PENDING and back: the original publish time must survive.
		if err := note.Transition(StatusDeletePending); err != nil {
			t.Fatalf("delete pending: %v", err)
		}
		if err := note.Transition(StatusPublished); err != nil {
			t.Fatalf("republish: %v", err)
		}
		if !note.PublishedAt.Equal(first) {
			t.Errorf("PublishedAt moved from %v to %v", first, *note.PublishedAt)
		}
	})

	t.Run("delete stamps deletion timestamp", func(t *testing.T) {
		note := &Note{Status: StatusDeletePending}
		if err := note.Transition(StatusDeleted); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if note.DeletedAt == nil {
			t.Error("DeletedAt not stamped")
		}
	})
}

func TestFolder_Path(t *testing.T) {
	tests := []struct {
		name   string
		folder Folder
		want   string
	}{
		{
			name:   "full coordinate",
			folder: Folder{Department: "it", Year: "year2", Section: "section-a", Subject: "networks"},
			want:   "it/year2/section-a/networks",
		},
		{
			name:   "section optional",
			folder: Folder{Department: "cs", Year: "year1", Subject: "algorithms"},
			want:   "cs/year1/algorithms",
		},
		{
			name:   "department only",
			folder: Folder{Department: "it"},
			want:   "it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.folder.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}
