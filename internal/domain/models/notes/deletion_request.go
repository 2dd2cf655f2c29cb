package notes

import (
	"time"

	"studynotes/internal/domain"
)

// RequestStatus is the deletion request state machine:
// PENDING -> APPROVED | REJECTED, both terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Valid reports whether s is a known request status value.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// DeletionRequest is a teacher's request to delete a published note,
// resolved by an admin. Terminal requests are immutable; the stored
// idempotency key discriminates a retried resolution from a new one.
type DeletionRequest struct {
	ID       int64         `json:"-" db:"id"`
	PublicID string        `json:"public_id" db:"public_id"`
	NoteID   int64         `json:"-" db:"note_id"`
	Status   RequestStatus `json:"status" db:"status"`
	Reason   string        `json:"reason" db:"reason"`

	// Requester identity, denormalized like the note's uploader.
	RequesterID    int64  `json:"-" db:"requester_id"`
	RequesterEmail string `json:"requester_email" db:"requester_email"`
	RequesterName  string `json:"requester_name" db:"requester_name"`

	RequestedAt time.Time `json:"requested_at" db:"requested_at"`

	// Resolution fields, populated exactly once.
	ResolvedByID    *int64     `json:"-" db:"resolved_by_id"`
	ResolvedByEmail string     `json:"resolved_by_email,omitempty" db:"resolved_by_email"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	RejectionReason string     `json:"rejection_reason,omitempty" db:"rejection_reason"`
	IdempotencyKey  string     `json:"-" db:"idempotency_key"`

	LockVersion int64 `json:"-" db:"lock_version"`
}

// IsResolved reports whether the request reached a terminal state.
func (r *DeletionRequest) IsResolved() bool {
	return r.Status == RequestApproved || r.Status == RequestRejected
}

// Approve marks the request approved by the given admin.
func (r *DeletionRequest) Approve(adminID int64, adminEmail, idempotencyKey string) error {
	return r.resolve(RequestApproved, adminID, adminEmail, "", idempotencyKey)
}

// Reject marks the request rejected by the given admin with a reason.
func (r *DeletionRequest) Reject(adminID int64, adminEmail, reason, idempotencyKey string) error {
	return r.resolve(RequestRejected, adminID, adminEmail, reason, idempotencyKey)
}

func (r *DeletionRequest) resolve(target RequestStatus, adminID int64, adminEmail, rejectionReason, idempotencyKey string) error {
	if r.IsResolved() {
		return &domain.AlreadyResolvedError{RequestPublicID: r.PublicID}
	}

	now := time.Now().UTC()
	r.Status = target
	r.ResolvedByID = &adminID
	r.ResolvedByEmail = adminEmail
	r.ResolvedAt = &now
	r.RejectionReason = rejectionReason
	r.IdempotencyKey = idempotencyKey
	return nil
}
