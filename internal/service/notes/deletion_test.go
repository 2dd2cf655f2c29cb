package notes

import (
	"context"
	"errors"
	"testing"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	"studynotes/internal/requestctx"
)

func TestDeletionWorkflow_Request(t *testing.T) {
	t.Run("drives note to delete pending", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		note := e.createNote(t, teacher, true)

		request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "duplicate upload")
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		if request.Status != notesModels.RequestPending {
			t.Errorf("request status = %s, want PENDING", request.Status)
		}
		if request.RequesterEmail != teacher.Email {
			t.Errorf("requester email = %q, want %q", request.RequesterEmail, teacher.Email)
		}

		reloaded, err := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
		if err != nil {
			t.Fatalf("find note: %v", err)
		}
		if reloaded.Status != notesModels.StatusDeletePending {
			t.Errorf("note status = %s, want DELETE_PENDING", reloaded.Status)
		}

		if got := len(e.auditRecords(t, notesModels.ActionDeletionRequested)); got != 1 {
			t.Errorf("DELETION_REQUESTED facts = %d, want 1", got)
		}
	})

	t.Run("requires published note", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		note := e.createNote(t, teacher, false)

		_, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "remove draft")
		if !errors.Is(err, domain.ErrInvalidNoteStatus) {
			t.Errorf("expected ErrInvalidNoteStatus, got %v", err)
		}
	})

	t.Run("second pending request is a duplicate", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		note := e.createNote(t, teacher, true)

		if _, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "first"); err != nil {
			t.Fatalf("first request: %v", err)
		}

		before, _ := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)

		_, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "second")
		if !errors.Is(err, domain.ErrDuplicateRequest) {
			t.Fatalf("expected ErrDuplicateRequest, got %v", err)
		}

		after, _ := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
		if after.Status != before.Status {
			t.Errorf("note status changed from %s to %s on failed request", before.Status, after.Status)
		}
	})

	t.Run("stranger may not request deletion", func(t *testing.T) {
		e := newEnv(t)
		owner := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		other := e.user(t, "james@school.edu", models.RoleTeacher, "cs")
		note := e.createNote(t, owner, true)

		_, err := e.workflow.Request(context.Background(), other, note.PublicID, "not mine")
		if !errors.Is(err, domain.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}

func TestDeletionWorkflow_Approve(t *testing.T) {
	t.Run("deletes the note", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		note := e.createNote(t, teacher, true)

		request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "duplicate upload")
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		ctx := requestctx.WithCorrelationID(context.Background(), "corr-approve-1")
		resolved, err := e.workflow.Approve(ctx, admin, request.PublicID)
		if err != nil {
			t.Fatalf("approve: %v", err)
		}

		if resolved.Status != notesModels.RequestApproved {
			t.Errorf("request status = %s, want APPROVED", resolved.Status)
		}
		if resolved.ResolvedByEmail != admin.Email || resolved.ResolvedAt == nil {
			t.Error("resolution fields not populated")
		}

		reloaded, _ := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
		if reloaded.Status != notesModels.StatusDeleted {
			t.Errorf("note status = %s, want DELETED", reloaded.Status)
		}
		if reloaded.DeletedAt == nil {
			t.Error("DeletedAt not stamped")
		}
	})

	t.Run("retry with same correlation id replays without a second audit fact", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		note := e.createNote(t, teacher, true)

		request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "duplicate upload")
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		ctx := requestctx.WithCorrelationID(context.Background(), "corr-retry")
		first, err := e.workflow.Approve(ctx, admin, request.PublicID)
		if err != nil {
			t.Fatalf("first approve: %v", err)
		}
		second, err := e.workflow.Approve(ctx, admin, request.PublicID)
		if err != nil {
			t.Fatalf("retried approve: %v", err)
		}

		if first.Status != second.Status || first.PublicID != second.PublicID {
			t.Error("replay returned a different request")
		}
		if second.ResolvedAt == nil || !second.ResolvedAt.Equal(*first.ResolvedAt) {
			t.Error("replay mutated the resolution timestamp")
		}

		if got := len(e.auditRecords(t, notesModels.ActionDeletionApproved)); got != 1 {
			t.Errorf("DELETION_APPROVED facts = %d, want exactly 1", got)
		}
	})

	t.Run("distinct second resolution fails", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		admin := e.user(t, "admin@school.edu", models.RoleAdmin)
		note := e.createNote(t, teacher, true)

		request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "duplicate upload")
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		ctxA := requestctx.WithCorrelationID(context.Background(), "corr-a")
		if _, err := e.workflow.Approve(ctxA, admin, request.PublicID); err != nil {
			t.Fatalf("approve: %v", err)
		}

		ctxB := requestctx.WithCorrelationID(context.Background(), "corr-b")
		_, err = e.workflow.Reject(ctxB, admin, request.PublicID, "changed my mind")
		if !errors.Is(err, domain.ErrAlreadyResolved) {
			t.Errorf("expected ErrAlreadyResolved, got %v", err)
		}
	})

	t.Run("teacher may not approve", func(t *testing.T) {
		e := newEnv(t)
		teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
		note := e.createNote(t, teacher, true)

		request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "duplicate upload")
		if err != nil {
			t.Fatalf("request: %v", err)
		}

		_, err = e.workflow.Approve(context.Background(), teacher, request.PublicID)
		if !errors.Is(err, domain.ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}

func TestDeletionWorkflow_Reject(t *testing.T) {
	e := newEnv(t)
	teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
	admin := e.user(t, "admin@school.edu", models.RoleAdmin)
	note := e.createNote(t, teacher, true)

	request, err := e.workflow.Request(context.Background(), teacher, note.PublicID, "outdated")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	ctx := requestctx.WithCorrelationID(context.Background(), "corr-reject")
	resolved, err := e.workflow.Reject(ctx, admin, request.PublicID, "still relevant")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	if resolved.Status != notesModels.RequestRejected {
		t.Errorf("request status = %s, want REJECTED", resolved.Status)
	}
	if resolved.RejectionReason != "still relevant" {
		t.Errorf("rejection reason = %q", resolved.RejectionReason)
	}

	reloaded, _ := e.lifecycle.FindByPublicID(context.Background(), note.PublicID)
	if reloaded.Status != notesModels.StatusPublished {
		t.Errorf("note status = %s, want PUBLISHED", reloaded.Status)
	}
	// A rejected deletion keeps the original publish time.
	if reloaded.PublishedAt == nil || !reloaded.PublishedAt.Equal(*note.PublishedAt) {
		t.Error("original publish time not preserved")
	}

	records := e.auditRecords(t, notesModels.ActionDeletionRejected)
	if len(records) != 1 {
		t.Fatalf("DELETION_REJECTED facts = %d, want exactly 1", len(records))
	}
	if records[0].PreviousState != string(notesModels.StatusDeletePending) || records[0].NewState != string(notesModels.StatusPublished) {
		t.Errorf("before/after = %q -> %q, want DELETE_PENDING -> PUBLISHED", records[0].PreviousState, records[0].NewState)
	}
}

func TestDeletionWorkflow_Lists(t *testing.T) {
	e := newEnv(t)
	teacher := e.user(t, "maria@school.edu", models.RoleTeacher, "it")
	admin := e.user(t, "admin@school.edu", models.RoleAdmin)

	first := e.createNote(t, teacher, true)
	second := e.createNote(t, teacher, true)

	r1, err := e.workflow.Request(context.Background(), teacher, first.PublicID, "one")
	if err != nil {
		t.Fatalf("request one: %v", err)
	}
	if _, err := e.workflow.Request(context.Background(), teacher, second.PublicID, "two"); err != nil {
		t.Fatalf("request two: %v", err)
	}

	pending, err := e.workflow.ListPending(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	// Oldest first.
	if pending[0].PublicID != r1.PublicID {
		t.Error("pending list not in request order")
	}

	ctx := requestctx.WithCorrelationID(context.Background(), "corr-list")
	if _, err := e.workflow.Approve(ctx, admin, r1.PublicID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err = e.workflow.ListPending(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending after approval = %d, want 1", len(pending))
	}
}
