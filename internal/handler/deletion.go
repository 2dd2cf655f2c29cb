package handler

import (
	"log/slog"
	"net/http"

	notesModels "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	notesSvc "studynotes/internal/domain/services/notes"
	"studynotes/internal/httputil"
)

// DeletionHandler handles deletion workflow HTTP requests.
type DeletionHandler struct {
	workflow notesSvc.DeletionWorkflow
	logger   *slog.Logger
}

// NewDeletionHandler creates a new deletion workflow handler.
func NewDeletionHandler(workflow notesSvc.DeletionWorkflow, logger *slog.Logger) *DeletionHandler {
	return &DeletionHandler{
		workflow: workflow,
		logger:   logger,
	}
}

type requestDeletionBody struct {
	Reason string `json:"reason"`
}

type rejectBody struct {
	Reason string `json:"reason"`
}

// RequestDeletion opens a deletion request for a published note
// POST /api/notes/{id}/deletion-requests
func (h *DeletionHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	var body requestDeletionBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.workflow.Request(r.Context(), user, r.PathValue("id"), body.Reason)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, request)
}

// Approve resolves a pending request and deletes the note
// POST /api/deletion-requests/{id}/approve
func (h *DeletionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	request, err := h.workflow.Approve(r.Context(), user, r.PathValue("id"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, request)
}

// Reject resolves a pending request and returns the note to PUBLISHED
// POST /api/deletion-requests/{id}/reject
func (h *DeletionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	var body rejectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.workflow.Reject(r.Context(), user, r.PathValue("id"), body.Reason)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, request)
}

// ListPending lists unresolved requests, oldest first
// GET /api/deletion-requests/pending
func (h *DeletionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := httputil.Pagination(r)

	requests, err := h.workflow.ListPending(r.Context(), limit, offset)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requests)
}

// ListRequests lists requests by status and date range, newest first
// GET /api/deletion-requests?status=&from=&to=&limit=&offset=
func (h *DeletionHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := notesRepo.DeletionFilter{}
	filter.Limit, filter.Offset = httputil.Pagination(r)

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := notesModels.RequestStatus(raw)
		if !status.Valid() {
			httputil.RespondError(w, http.StatusBadRequest, "unknown status")
			return
		}
		filter.Status = &status
	}

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid to timestamp")
		return
	}

	// Teachers see their own requests; admins see everyone's.
	user := httputil.GetUser(r)
	if !user.IsAdmin() {
		filter.RequesterID = user.ID
	}

	requests, err := h.workflow.ListByFilters(r.Context(), filter)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requests)
}
