package handler

import (
	"log/slog"
	"net/http"

	notesModels "studynotes/internal/domain/models/notes"
	notesSvc "studynotes/internal/domain/services/notes"
	"studynotes/internal/httputil"
)

// AuditHandler exposes the audit trail's read surface. The trail has no
// update or delete endpoints.
type AuditHandler struct {
	audit  notesSvc.AuditTrail
	logger *slog.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(audit notesSvc.AuditTrail, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// Query lists audit records newest first, admin only
// GET /api/audit?actor_id=&action=&target_type=&target_id=&from=&to=
func (h *AuditHandler) Query(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)
	if !user.IsAdmin() {
		httputil.RespondError(w, http.StatusForbidden, "admin role required")
		return
	}

	filter := notesModels.AuditFilter{
		ActorID:    int64(httputil.QueryInt(r, "actor_id", 0)),
		Action:     notesModels.AuditAction(r.URL.Query().Get("action")),
		TargetType: r.URL.Query().Get("target_type"),
		TargetID:   r.URL.Query().Get("target_id"),
	}
	filter.Limit, filter.Offset = httputil.Pagination(r)

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid to timestamp")
		return
	}

	records, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, records)
}
