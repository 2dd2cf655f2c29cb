package handler

import (
	"log/slog"
	"net/http"
	"time"

	notesModels "studynotes/internal/domain/models/notes"
	"studynotes/internal/domain/repositories"
	notesSvc "studynotes/internal/domain/services/notes"
	"studynotes/internal/httputil"
)

// PermissionHandler handles folder permission HTTP requests. It resolves
// target users from their public ids before calling the service, which
// only speaks internal keys.
type PermissionHandler struct {
	resolver notesSvc.PermissionResolver
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(resolver notesSvc.PermissionResolver, userRepo repositories.UserRepository, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		resolver: resolver,
		userRepo: userRepo,
		logger:   logger,
	}
}

type grantBody struct {
	UserPublicID string     `json:"user_id"`
	FolderPath   string     `json:"folder_path"`
	CanRead      bool       `json:"can_read"`
	CanWrite     bool       `json:"can_write"`
	CanDelete    bool       `json:"can_delete"`
	CanManage    bool       `json:"can_manage"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// Grant creates or replaces a folder permission
// POST /api/permissions
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	grantedBy := httputil.GetUser(r)

	var body grantBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := h.userRepo.GetByPublicID(r.Context(), body.UserPublicID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	permission, err := h.resolver.Grant(r.Context(), grantedBy, &notesSvc.GrantRequest{
		UserID:     target.ID,
		FolderPath: body.FolderPath,
		CanRead:    body.CanRead,
		CanWrite:   body.CanWrite,
		CanDelete:  body.CanDelete,
		CanManage:  body.CanManage,
		ExpiresAt:  body.ExpiresAt,
	})
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, permission)
}

// Revoke deactivates a folder permission
// DELETE /api/permissions/{userId}?folder_path=...
func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	revokedBy := httputil.GetUser(r)

	folderPath := r.URL.Query().Get("folder_path")
	if folderPath == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_path is required")
		return
	}

	target, err := h.userRepo.GetByPublicID(r.Context(), r.PathValue("userId"))
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	if err := h.resolver.Revoke(r.Context(), revokedBy, target.ID, folderPath); err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMine lists the caller's active, unexpired grants
// GET /api/permissions/me
func (h *PermissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	permissions, err := h.resolver.ListActiveFor(r.Context(), user.ID)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, permissions)
}

// Check reports whether the caller holds a capability on a folder path
// GET /api/permissions/check?folder_path=&capability=
func (h *PermissionHandler) Check(w http.ResponseWriter, r *http.Request) {
	user := httputil.GetUser(r)

	folderPath := r.URL.Query().Get("folder_path")
	capability := notesModels.Capability(r.URL.Query().Get("capability"))
	if folderPath == "" || capability == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_path and capability are required")
		return
	}

	allowed, err := h.resolver.Check(r.Context(), user, folderPath, capability)
	if err != nil {
		httputil.RespondDomainError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}
