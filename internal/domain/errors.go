package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps the transport layer free of
// per-error switch statements.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound               = errors.New("not found")
	ErrAccessDenied           = errors.New("access denied")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidNoteStatus      = errors.New("invalid note status")
	ErrDuplicateRequest       = errors.New("duplicate deletion request")
	ErrAlreadyResolved        = errors.New("deletion request already resolved")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrContentTooLarge        = errors.New("content too large")
	ErrValidation             = errors.New("validation failed")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrRateLimited            = errors.New("rate limit exceeded")
)

type (
	// NotFoundError indicates a referenced note, request or permission
	// target does not exist.
	NotFoundError struct {
		Resource string
		ID       string
	}

	// AccessDeniedError indicates a permission check failed for a folder path.
	AccessDeniedError struct {
		FolderPath string
	}

	// InvalidStateTransitionError indicates an attempted note transition
	// outside the allowed table.
	InvalidStateTransitionError struct {
		From string
		To   string
	}

	// InvalidNoteStatusError indicates an operation precondition on the
	// note's current status was not met.
	InvalidNoteStatusError struct {
		Status   string
		Required string
	}

	// DuplicateRequestError indicates a PENDING deletion request already
	// exists for the note.
	DuplicateRequestError struct {
		NotePublicID string
	}

	// AlreadyResolvedError indicates a second, distinct resolution attempt
	// against an already-decided deletion request.
	AlreadyResolvedError struct {
		RequestPublicID string
	}

	// ConcurrentModificationError indicates an optimistic lock token was
	// stale; the caller should re-read and retry.
	ConcurrentModificationError struct {
		Resource string
		ID       string
	}

	// ContentTooLargeError indicates a note payload exceeded the size ceiling.
	ContentTooLargeError struct {
		SizeBytes int64
		MaxBytes  int64
	}

	// ValidationError indicates invalid input.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure.
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("no permission for folder %s", e.FolderPath)
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition note from %s to %s", e.From, e.To)
}

func (e *InvalidNoteStatusError) Error() string {
	return fmt.Sprintf("operation requires status %s, note is %s", e.Required, e.Status)
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("note %s already has a pending deletion request", e.NotePublicID)
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("deletion request %s has already been resolved", e.RequestPublicID)
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently, re-read and retry", e.Resource, e.ID)
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content size %d exceeds maximum of %d bytes", e.SizeBytes, e.MaxBytes)
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int               { return http.StatusNotFound }
func (e *AccessDeniedError) StatusCode() int           { return http.StatusForbidden }
func (e *InvalidStateTransitionError) StatusCode() int { return http.StatusConflict }
func (e *InvalidNoteStatusError) StatusCode() int      { return http.StatusConflict }
func (e *DuplicateRequestError) StatusCode() int       { return http.StatusConflict }
func (e *AlreadyResolvedError) StatusCode() int        { return http.StatusConflict }
func (e *ConcurrentModificationError) StatusCode() int { return http.StatusConflict }
func (e *ContentTooLargeError) StatusCode() int        { return http.StatusRequestEntityTooLarge }
func (e *ValidationError) StatusCode() int             { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int           { return http.StatusUnauthorized }

// Is hooks allow errors.Is() to match typed errors against the sentinels.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }
func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
func (e *InvalidNoteStatusError) Is(target error) bool { return target == ErrInvalidNoteStatus }
func (e *DuplicateRequestError) Is(target error) bool  { return target == ErrDuplicateRequest }
func (e *AlreadyResolvedError) Is(target error) bool   { return target == ErrAlreadyResolved }
func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}
func (e *ContentTooLargeError) Is(target error) bool { return target == ErrContentTooLarge }
func (e *ValidationError) Is(target error) bool      { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool    { return target == ErrUnauthorized }
