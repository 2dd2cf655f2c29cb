package notes

import (
	"time"

	"studynotes/internal/domain/models"
)

// AuditAction enumerates the auditable actions in the system.
type AuditAction string

const (
	ActionNoteCreated   AuditAction = "NOTE_CREATED"
	ActionNoteUpdated   AuditAction = "NOTE_UPDATED"
	ActionNotePublished AuditAction = "NOTE_PUBLISHED"
	ActionNoteArchived  AuditAction = "NOTE_ARCHIVED"
	ActionNoteDeleted   AuditAction = "NOTE_DELETED"

	ActionDeletionRequested AuditAction = "DELETION_REQUESTED"
	ActionDeletionApproved  AuditAction = "DELETION_APPROVED"
	ActionDeletionRejected  AuditAction = "DELETION_REJECTED"

	ActionPermissionGranted AuditAction = "FOLDER_PERMISSION_GRANTED"
	ActionPermissionRevoked AuditAction = "FOLDER_PERMISSION_REVOKED"
)

// AuditRecord is an append-only fact about an action. Records are never
// updated or deleted, and actor identity is a value-copy taken at write
// time so the trail survives later account changes.
type AuditRecord struct {
	ID            int64       `json:"id" db:"id"`
	CorrelationID string      `json:"correlation_id" db:"correlation_id"`
	ActorID       int64       `json:"-" db:"actor_id"`
	ActorEmail    string      `json:"actor_email" db:"actor_email"`
	ActorRole     models.Role `json:"actor_role" db:"actor_role"`
	Action        AuditAction `json:"action" db:"action"`
	TargetType    string      `json:"target_type" db:"target_type"`
	TargetID      string      `json:"target_id" db:"target_id"`
	Description   string      `json:"description" db:"description"`
	PreviousState string      `json:"previous_state,omitempty" db:"previous_state"`
	NewState      string      `json:"new_state,omitempty" db:"new_state"`
	IPAddress     string      `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent     string      `json:"user_agent,omitempty" db:"user_agent"`
	Timestamp     time.Time   `json:"timestamp" db:"timestamp"`
}

// AuditFilter narrows an audit query. Zero values mean "no constraint".
type AuditFilter struct {
	ActorID    int64
	Action     AuditAction
	TargetType string
	TargetID   string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
