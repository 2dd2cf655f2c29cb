package notes

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	services "studynotes/internal/domain/services/notes"
	"studynotes/internal/repository/memory"
)

// env wires the full service graph over the in-memory store.
type env struct {
	store     *memory.Store
	audit     services.AuditTrail
	resolver  services.PermissionResolver
	versions  services.VersionStore
	lifecycle services.DocumentLifecycle
	workflow  services.DeletionWorkflow
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	audit := NewAuditTrail(store.Audits(), logger)
	resolver := NewPermissionResolver(store.Permissions(), audit, logger)
	versions := NewVersionStore(store.Versions(), logger)
	lifecycle := NewDocumentLifecycle(store.Notes(), versions, resolver, audit, store.TxManager(), logger)
	workflow := NewDeletionWorkflow(store.DeletionRequests(), store.Notes(), resolver, audit, store.TxManager(), logger)

	return &env{
		store:     store,
		audit:     audit,
		resolver:  resolver,
		versions:  versions,
		lifecycle: lifecycle,
		workflow:  workflow,
	}
}

func (e *env) user(t *testing.T, email string, role models.Role, departments ...string) *models.User {
	t.Helper()

	user := &models.User{
		PublicID:    "u-" + email,
		Email:       email,
		Name:        email,
		Role:        role,
		Departments: departments,
		Enabled:     true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// grant inserts an explicit folder permission directly into the store.
func (e *env) grant(t *testing.T, user *models.User, folderPath string, read, write, del, manage bool, expiresAt *time.Time) {
	t.Helper()

	err := e.store.Permissions().Upsert(context.Background(), &notesModels.FolderPermission{
		UserID:     user.ID,
		FolderPath: folderPath,
		CanRead:    read,
		CanWrite:   write,
		CanDelete:  del,
		CanManage:  manage,
		Active:     true,
		ExpiresAt:  expiresAt,
		GrantedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("grant on %s: %v", folderPath, err)
	}
}

// createNote creates a note as the given teacher, granting write first.
func (e *env) createNote(t *testing.T, teacher *models.User, publish bool) *notesModels.Note {
	t.Helper()

	folder := notesModels.Folder{Department: "it", Year: "year2", Section: "section-a", Subject: "networks"}
	e.grant(t, teacher, "it", true, true, false, false, nil)

	note, err := e.lifecycle.Create(context.Background(), teacher, &services.CreateNoteRequest{
		Title:              "Subnetting Basics",
		Folder:             folder,
		Content:            "CIDR notation and worked examples.",
		PublishImmediately: publish,
		ChangeSummary:      "initial upload",
	})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}

func (e *env) auditRecords(t *testing.T, action notesModels.AuditAction) []notesModels.AuditRecord {
	t.Helper()

	records, err := e.audit.Query(context.Background(), notesModels.AuditFilter{Action: action, Limit: 100})
	if err != nil {
		t.Fatalf("query audit: %v", err)
	}
	return records
}
