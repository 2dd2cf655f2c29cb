package notes

import (
	"strings"
	"time"

	"studynotes/internal/domain"
)

// Status is the explicit note lifecycle state machine.
// No boolean visibility flags - clear state transitions only.
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusPublished     Status = "PUBLISHED"
	StatusDeletePending Status = "DELETE_PENDING"
	StatusDeleted       Status = "DELETED"
	StatusArchived      Status = "ARCHIVED"
)

// CanTransitionTo reports whether the transition table allows moving to target.
//
//	DRAFT          -> PUBLISHED, ARCHIVED
//	PUBLISHED      -> DELETE_PENDING, ARCHIVED
//	DELETE_PENDING -> DELETED, PUBLISHED
//	DELETED        -> ARCHIVED
//	ARCHIVED       -> (terminal)
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusPublished || target == StatusArchived
	case StatusPublished:
		return target == StatusDeletePending || target == StatusArchived
	case StatusDeletePending:
		return target == StatusDeleted || target == StatusPublished
	case StatusDeleted:
		return target == StatusArchived
	default:
		return false
	}
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDeletePending, StatusDeleted, StatusArchived:
		return true
	}
	return false
}

// VoteKind selects which feedback counter a reader's vote touches.
type VoteKind string

const (
	VoteLike    VoteKind = "LIKE"
	VoteDislike VoteKind = "DISLIKE"
)

// Valid reports whether v is a known vote kind.
func (v VoteKind) Valid() bool {
	return v == VoteLike || v == VoteDislike
}

// Folder is the four-level coordinate a note lives at. Section is optional.
type Folder struct {
	Department string `json:"department" db:"department"`
	Year       string `json:"year" db:"year"`
	Section    string `json:"section,omitempty" db:"section"`
	Subject    string `json:"subject" db:"subject"`
}

// Path renders the slash-separated folder path used for permission checks,
// e.g. "it/year2/section-a/networks".
func (f Folder) Path() string {
	parts := make([]string, 0, 4)
	parts = append(parts, f.Department)
	if f.Year != "" {
		parts = append(parts, f.Year)
	}
	if f.Section != "" {
		parts = append(parts, f.Section)
	}
	if f.Subject != "" {
		parts = append(parts, f.Subject)
	}
	return strings.Join(parts, "/")
}

// Note is a shared educational document contributed by a teacher.
// It is owned exclusively by the lifecycle service and mutated only
// through Transition and the repository's optimistic update.
type Note struct {
	ID       int64  `json:"-" db:"id"`
	PublicID string `json:"public_id" db:"public_id"`
	Title    string `json:"title" db:"title"`

	Folder Folder `json:"folder"`

	Content        string `json:"content,omitempty" db:"content"`
	SizeBytes      int64  `json:"size_bytes" db:"size_bytes"`
	CurrentVersion int    `json:"current_version" db:"current_version"`
	Status         Status `json:"status" db:"status"`

	// Uploader identity, denormalized at upload time so history survives
	// later account changes.
	UploaderID    int64  `json:"-" db:"uploader_id"`
	UploaderEmail string `json:"uploader_email" db:"uploader_email"`
	UploaderName  string `json:"uploader_name" db:"uploader_name"`

	Likes    int `json:"likes" db:"likes"`
	Dislikes int `json:"dislikes" db:"dislikes"`

	// LockVersion is the optimistic concurrency token maintained by the store.
	LockVersion int64 `json:"-" db:"lock_version"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Transition validates and performs a status transition, stamping the
// publish/delete timestamps. The note is left unchanged on error.
func (n *Note) Transition(target Status) error {
	if !n.Status.CanTransitionTo(target) {
		return &domain.InvalidStateTransitionError{From: string(n.Status), To: string(target)}
	}

	n.Status = target

	now := time.Now().UTC()
	switch target {
	case StatusPublished:
		// Set once, never cleared - a rejected deletion returns the note to
		// PUBLISHED without moving the original publish time.
		if n.PublishedAt == nil {
			n.PublishedAt = &now
		}
	case StatusDeleted:
		n.DeletedAt = &now
	}

	return nil
}

// IsOwnedBy reports whether the user is the original uploader.
func (n *Note) IsOwnedBy(userID int64) bool {
	return n.UploaderID == userID
}

// VisibleToStudents reports whether the note is in a publicly readable state.
func (n *Note) VisibleToStudents() bool {
	return n.Status == StatusPublished
}
