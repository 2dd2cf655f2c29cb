package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	services "studynotes/internal/domain/services/notes"
)

func TestPermissionResolver_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("admin holds every capability", func(t *testing.T) {
		e := newEnv(t)
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)

		for _, capability := range []notesModels.Capability{
			notesModels.CapabilityRead,
			notesModels.CapabilityWrite,
			notesModels.CapabilityDelete,
			notesModels.CapabilityManage,
		} {
			allowed, err := e.resolver.Check(ctx, admin, "it/year2", capability)
			if err != nil {
				t.Fatalf("check %s: %v", capability, err)
			}
			if !allowed {
				t.Errorf("admin denied %s", capability)
			}
		}
	})

	t.Run("department membership implies read", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		allowed, err := e.resolver.Check(ctx, teacher, "it/year2/section-a/networks", notesModels.CapabilityRead)
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if !allowed {
			t.Error("department member denied read")
		}

		allowed, _ = e.resolver.Check(ctx, teacher, "cs/year1", notesModels.CapabilityRead)
		if allowed {
			t.Error("read granted outside department")
		}
	})

	t.Run("write needs department and explicit grant", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		// In department, no grant.
		allowed, _ := e.resolver.Check(ctx, teacher, "it/year2", notesModels.CapabilityWrite)
		if allowed {
			t.Error("write granted without explicit grant")
		}

		// Grant on the department root covers every child path.
		e.grant(t, teacher, "it", false, true, false, false, nil)
		allowed, _ = e.resolver.Check(ctx, teacher, "it/year2/section-a/networks", notesModels.CapabilityWrite)
		if !allowed {
			t.Error("write denied despite covering grant")
		}

		// No cross-department leakage.
		allowed, _ = e.resolver.Check(ctx, teacher, "cs/year1", notesModels.CapabilityWrite)
		if allowed {
			t.Error("write granted outside department")
		}
	})

	t.Run("delete and manage are explicit only", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		for _, capability := range []notesModels.Capability{notesModels.CapabilityDelete, notesModels.CapabilityManage} {
			allowed, _ := e.resolver.Check(ctx, teacher, "it/year2", capability)
			if allowed {
				t.Errorf("%s granted implicitly", capability)
			}
		}

		e.grant(t, teacher, "it/year2", false, false, true, true, nil)
		for _, capability := range []notesModels.Capability{notesModels.CapabilityDelete, notesModels.CapabilityManage} {
			allowed, _ := e.resolver.Check(ctx, teacher, "it/year2/section-a", capability)
			if !allowed {
				t.Errorf("%s denied despite explicit grant", capability)
			}
		}
	})

	t.Run("expired and inactive grants do not count", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		expired := time.Now().UTC().Add(-time.Minute)
		e.grant(t, teacher, "it", false, true, false, false, &expired)

		allowed, _ := e.resolver.Check(ctx, teacher, "it/year2", notesModels.CapabilityWrite)
		if allowed {
			t.Error("expired grant still counted")
		}
	})

	t.Run("disabled user is denied everything", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		teacher.Enabled = false

		allowed, _ := e.resolver.Check(ctx, teacher, "it/year2", notesModels.CapabilityRead)
		if allowed {
			t.Error("disabled user granted read")
		}
	})
}

func TestPermissionResolver_Assert(t *testing.T) {
	e := newEnv(t)
	teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

	err := e.resolver.Assert(context.Background(), teacher, "cs/year1", notesModels.CapabilityRead)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	var denied *domain.AccessDeniedError
	if !errors.As(err, &denied) || denied.FolderPath != "cs/year1" {
		t.Errorf("error does not carry the folder path: %v", err)
	}
}

func TestPermissionResolver_GrantAndRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("grant upserts a single row per user and path", func(t *testing.T) {
		e := newEnv(t)
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		if _, err := e.resolver.Grant(ctx, admin, &services.GrantRequest{
			UserID:     teacher.ID,
			FolderPath: "it",
			CanRead:    true,
			CanWrite:   true,
		}); err != nil {
			t.Fatalf("grant: %v", err)
		}

		// Granting again overwrites the flags instead of adding a row.
		if _, err := e.resolver.Grant(ctx, admin, &services.GrantRequest{
			UserID:     teacher.ID,
			FolderPath: "it",
			CanRead:    true,
		}); err != nil {
			t.Fatalf("regrant: %v", err)
		}

		grants, err := e.resolver.ListActiveFor(ctx, teacher.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(grants) != 1 {
			t.Fatalf("grants = %d, want 1", len(grants))
		}
		if grants[0].CanWrite {
			t.Error("regrant did not overwrite the write flag")
		}
	})

	t.Run("teacher may not grant", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		other := e.user(t, "james@school.edu", models.RoleTeacher, "it")

		_, err := e.resolver.Grant(ctx, teacher, &services.GrantRequest{
			UserID:     other.ID,
			FolderPath: "it",
			CanWrite:   true,
		})
		if !errors.Is(err, domain.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("revoke deactivates without deleting", func(t *testing.T) {
		e := newEnv(t)
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		if _, err := e.resolver.Grant(ctx, admin, &services.GrantRequest{
			UserID:     teacher.ID,
			FolderPath: "it",
			CanWrite:   true,
		}); err != nil {
			t.Fatalf("grant: %v", err)
		}

		if err := e.resolver.Revoke(ctx, admin, teacher.ID, "it"); err != nil {
			t.Fatalf("revoke: %v", err)
		}

		allowed, _ := e.resolver.Check(ctx, teacher, "it/year2", notesModels.CapabilityWrite)
		if allowed {
			t.Error("revoked grant still counted")
		}

		// The inactive row survives as grant history.
		row, err := e.store.Permissions().GetByUserAndPath(ctx, teacher.ID, "it")
		if err != nil {
			t.Fatalf("row deleted on revoke: %v", err)
		}
		if row.Active {
			t.Error("row still active after revoke")
		}
	})

	t.Run("audit facts recorded for grant and revoke", func(t *testing.T) {
		e := newEnv(t)
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")

		if _, err := e.resolver.Grant(ctx, admin, &services.GrantRequest{
			UserID:     teacher.ID,
			FolderPath: "it",
			CanWrite:   true,
		}); err != nil {
			t.Fatalf("grant: %v", err)
		}
		if err := e.resolver.Revoke(ctx, admin, teacher.ID, "it"); err != nil {
			t.Fatalf("revoke: %v", err)
		}

		if got := len(e.auditRecords(t, notesModels.ActionPermissionGranted)); got != 1 {
			t.Errorf("FOLDER_PERMISSION_GRANTED facts = %d, want 1", got)
		}
		if got := len(e.auditRecords(t, notesModels.ActionPermissionRevoked)); got != 1 {
			t.Errorf("FOLDER_PERMISSION_REVOKED facts = %d, want 1", got)
		}
	})
}
