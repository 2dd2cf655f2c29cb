// Package memory provides in-memory implementations of the repository
// interfaces with the same observable semantics as the postgres ones:
// optimistic lock tokens, the single-PENDING-request invariant and
// append-only audit records. It backs service tests and local development
// without a database.
package memory

import (
	"context"
	"sync"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	"studynotes/internal/domain/repositories"
	notesRepo "studynotes/internal/domain/repositories/notes"
)

// Store holds all in-memory state behind one mutex. Individual repository
// views share it.
type Store struct {
	mu sync.Mutex

	users       []models.User
	notes       map[int64]notesModels.Note
	versions    []notesModels.Version
	requests    map[int64]notesModels.DeletionRequest
	permissions []notesModels.FolderPermission
	audits      []notesModels.AuditRecord

	nextUserID    int64
	nextNoteID    int64
	nextVersionID int64
	nextRequestID int64
	nextPermID    int64
	nextAuditID   int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		notes:    make(map[int64]notesModels.Note),
		requests: make(map[int64]notesModels.DeletionRequest),
	}
}

// Users returns the user repository view.
func (s *Store) Users() repositories.UserRepository { return &userRepository{store: s} }

// Notes returns the note repository view.
func (s *Store) Notes() notesRepo.NoteRepository { return &noteRepository{store: s} }

// Versions returns the version repository view.
func (s *Store) Versions() notesRepo.VersionRepository { return &versionRepository{store: s} }

// DeletionRequests returns the deletion request repository view.
func (s *Store) DeletionRequests() notesRepo.DeletionRequestRepository {
	return &deletionRequestRepository{store: s}
}

// Permissions returns the permission repository view.
func (s *Store) Permissions() notesRepo.PermissionRepository {
	return &permissionRepository{store: s}
}

// Audits returns the audit repository view.
func (s *Store) Audits() notesRepo.AuditRepository { return &auditRepository{store: s} }

// TxManager returns a pass-through transaction manager. The store has no
// rollback; each repository call is already atomic under the mutex.
func (s *Store) TxManager() repositories.TransactionManager { return passthroughTxManager{} }

type passthroughTxManager struct{}

func (passthroughTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
