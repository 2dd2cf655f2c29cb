package notes

import (
	"context"
	"errors"
	"testing"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	services "studynotes/internal/domain/services/notes"
)

func TestVersionStore_InvariantOverUpdates(t *testing.T) {
	e := newEnv(t)
	teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
	note := e.createNote(t, teacher, false)

	// A few updates, each adding a version.
	for i := 0; i < 3; i++ {
		current, err := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		content := "revision"
		if _, err := e.lifecycle.Update(context.Background(), teacher, note.PublicID, &services.UpdateNoteRequest{
			Content:     &content,
			LockVersion: current.LockVersion,
		}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	final, err := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if final.CurrentVersion != 4 {
		t.Fatalf("current version = %d, want 4", final.CurrentVersion)
	}

	versions, err := e.versions.History(context.Background(), note.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	// Version numbers are exactly {1..currentVersion}, newest first, with
	// exactly one flagged current.
	if len(versions) != final.CurrentVersion {
		t.Fatalf("versions = %d, want %d", len(versions), final.CurrentVersion)
	}
	currentCount := 0
	for i, v := range versions {
		if want := final.CurrentVersion - i; v.VersionNumber != want {
			t.Errorf("versions[%d].VersionNumber = %d, want %d", i, v.VersionNumber, want)
		}
		if v.IsCurrent {
			currentCount++
			if v.VersionNumber != final.CurrentVersion {
				t.Errorf("current flag on version %d", v.VersionNumber)
			}
		}
	}
	if currentCount != 1 {
		t.Errorf("current versions = %d, want exactly 1", currentCount)
	}
}

func TestVersionStore_GetVersion(t *testing.T) {
	e := newEnv(t)
	teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
	note := e.createNote(t, teacher, false)

	version, err := e.versions.GetVersion(context.Background(), note.ID, 1)
	if err != nil {
		t.Fatalf("get version: %v", err)
	}
	if version.Title != note.Title {
		t.Errorf("snapshot title = %q, want %q", version.Title, note.Title)
	}

	if _, err := e.versions.GetVersion(context.Background(), note.ID, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing version, got %v", err)
	}
}
