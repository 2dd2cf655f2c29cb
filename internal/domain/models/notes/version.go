package notes

import "time"

// Version is an immutable snapshot of a note at a given version number.
// Rows are append-only per note; exactly one carries IsCurrent at any time.
type Version struct {
	ID            int64     `json:"-" db:"id"`
	NoteID        int64     `json:"-" db:"note_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content,omitempty" db:"content"`
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	ContentHash   string    `json:"content_hash" db:"content_hash"`
	AuthorID      int64     `json:"-" db:"author_id"`
	AuthorEmail   string    `json:"author_email" db:"author_email"`
	ChangeSummary string    `json:"change_summary" db:"change_summary"`
	IsCurrent     bool      `json:"is_current" db:"is_current"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
