package notes

import (
	"context"
	"testing"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	services "studynotes/internal/domain/services/notes"
	"studynotes/internal/requestctx"
)

func TestAuditTrail_Record(t *testing.T) {
	e := newEnv(t)
	actor := e.user(t, "admin@school.edu", models.RoleAdmin)

	t.Run("captures ambient request context", func(t *testing.T) {
		ctx := requestctx.WithCorrelationID(context.Background(), "corr-123")
		ctx = requestctx.WithClientInfo(ctx, requestctx.ClientInfo{
			IPAddress: "10.1.2.3",
			UserAgent: "test-agent",
		})

		record, err := e.audit.Record(ctx, services.AuditEntry{
			Action:      notesModels.ActionNotePublished,
			Actor:       actor,
			TargetType:  "note",
			TargetID:    "n-1",
			Description: "published",
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}

		if record.CorrelationID != "corr-123" {
			t.Errorf("correlation id = %q", record.CorrelationID)
		}
		if record.IPAddress != "10.1.2.3" || record.UserAgent != "test-agent" {
			t.Errorf("client info = %q / %q", record.IPAddress, record.UserAgent)
		}
		if record.ActorEmail != actor.Email || record.ActorRole != actor.Role {
			t.Error("actor snapshot not captured")
		}
		if record.Timestamp.IsZero() {
			t.Error("timestamp not set")
		}
	})

	t.Run("generates correlation id when context carries none", func(t *testing.T) {
		record, err := e.audit.Record(context.Background(), services.AuditEntry{
			Action: notesModels.ActionNoteCreated,
			Actor:  actor,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if record.CorrelationID == "" {
			t.Error("correlation id not generated")
		}
		if record.IPAddress != "unknown" {
			t.Errorf("ip address = %q, want unknown fallback", record.IPAddress)
		}
	})
}

func TestAuditTrail_Query(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice@school.edu", models.RoleAdmin)
	bob := e.user(t, "bob@school.edu", models.RoleAdmin)
	ctx := context.Background()

	for _, entry := range []services.AuditEntry{
		{Action: notesModels.ActionNoteCreated, Actor: alice, TargetType: "note", TargetID: "n-1"},
		{Action: notesModels.ActionNotePublished, Actor: alice, TargetType: "note", TargetID: "n-1"},
		{Action: notesModels.ActionNoteCreated, Actor: bob, TargetType: "note", TargetID: "n-2"},
	} {
		if _, err := e.audit.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	t.Run("filters by actor", func(t *testing.T) {
		records, err := e.audit.Query(ctx, notesModels.AuditFilter{ActorID: bob.ID})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(records) != 1 || records[0].TargetID != "n-2" {
			t.Errorf("actor filter returned %+v", records)
		}
	})

	t.Run("filters by action and target", func(t *testing.T) {
		records, err := e.audit.Query(ctx, notesModels.AuditFilter{
			Action:   notesModels.ActionNoteCreated,
			TargetID: "n-1",
		})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(records) != 1 || records[0].ActorID != alice.ID {
			t.Errorf("combined filter returned %+v", records)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		records, err := e.audit.Query(ctx, notesModels.AuditFilter{})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("records = %d, want 3", len(records))
		}
		for i := 1; i < len(records); i++ {
			if records[i].Timestamp.After(records[i-1].Timestamp) {
				t.Error("records not ordered newest first")
			}
		}
	})
}
