// Package handler exposes the lifecycle and governance services over HTTP.
// Handlers parse and respond; all business logic lives in the services.
package handler

import (
	"log/slog"
	"net/http"

	notesModels "studynotes/internal/domain/models/notes"
	notesSvc "studynotes/internal/domain/services/notes"
	"studynotes/internal/httputil"
)

// NoteHandler handles note HTTP requests.
type NoteHandler struct {
	lifecycle notesSvc.DocumentLifecycle
	versions  notesSvc.VersionStore
	resolver  notesSvc.PermissionResolver
	logger    *slog.Logger
}

// NewNoteHandler creates a new note handler.
func NewNoteHandler(lifecycle notesSvc.DocumentLifecycle, versions notesSvc.VersionStore, resolver notesSvc.PermissionResolver, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		lifecycle: lifecycle,
		versions:  versions,
		resolver:  resolver,
		logger:    logger,
	}
}

// CreateNote creates a new note
// POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	var req notesSvc.CreateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.lifecycle.Create(r.Context(), user, &req)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, note)
}

// GetNote retrieves a note by public id
// GET /api/notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.readableNote(r)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// UpdateNote applies a partial patch to a note
// PATCH /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	var req notesSvc.UpdateNoteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.lifecycle.Update(r.Context(), user, r.PathValue("id"), &req)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// PublishNote moves a draft note to PUBLISHED
// POST /api/notes/{id}/publish
func (h *NoteHandler) PublishNote(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	note, err := h.lifecycle.Publish(r.Context(), user, r.PathValue("id"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// ArchiveNote moves a note to its terminal ARCHIVED state
// POST /api/notes/{id}/archive
func (h *NoteHandler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	note, err := h.lifecycle.Archive(r.Context(), user, r.PathValue("id"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, note)
}

// LikeNote bumps a published note's like counter
// POST /api/notes/{id}/like
func (h *NoteHandler) LikeNote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, notesModels.VoteLike, "likes")
}

// DislikeNote bumps a published note's dislike counter
// POST /api/notes/{id}/dislike
func (h *NoteHandler) DislikeNote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, notesModels.VoteDislike, "dislikes")
}

func (h *NoteHandler) vote(w http.ResponseWriter, r *http.Request, vote notesModels.VoteKind, field string) {
	user := httputil.GetUser(r)

	count, err := h.lifecycle.Vote(r.Context(), user, r.PathValue("id"), vote)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{field: count})
}

// ListMyNotes lists the caller's own notes, optionally filtered by status
// GET /api/notes?status=&limit=&offset=
func (h *NoteHandler) ListMyNotes(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	var status *notesModels.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := notesModels.Status(raw)
		if !s.Valid() {
			httputil.RespondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		status = &s
	}

	limit, offset := httputil.Pagination(r)
	notes, err := h.lifecycle.ListByOwner(r.Context(), user.ID, status, limit, offset)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notes)
}

// ListVersions returns a note's version history, newest first
// GET /api/notes/{id}/versions
func (h *NoteHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	note, err := h.readableNote(r)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	versions, err := h.versions.History(r.Context(), note.ID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// GetVersion returns one version snapshot of a note
// GET /api/notes/{id}/versions/{number}
func (h *NoteHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	note, err := h.readableNote(r)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	versionNumber, err := pathInt(r, "number")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid version number")
		return
	}

	version, err := h.versions.GetVersion(r.Context(), note.ID, versionNumber)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// readableNote loads the requested note and enforces read visibility: the
// uploader always sees their note; anyone else needs READ on its folder,
// and MANAGE when the note is not publicly visible.
func (h *NoteHandler) readableNote(r *http.Request) (*notesModels.Note, error) {
	user := httputil.GetUser(r)

	note, err := h.lifecycle.FindByPublicID(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}

	if note.IsOwnedBy(user.ID) {
		return note, nil
	}

	capability := notesModels.CapabilityRead
	if !note.VisibleToStudents() {
		capability = notesModels.CapabilityManage
	}
	if err := h.resolver.Assert(r.Context(), user, note.Folder.Path(), capability); err != nil {
		return nil, err
	}

	return note, nil
}
