package notes

import (
	"context"
	"time"

	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
)

// GrantRequest carries the input for granting or replacing a folder
// permission. One row exists per (user, folder path); granting again
// overwrites the flags, expiry and active state.
type GrantRequest struct {
	UserID     int64      `json:"-"`
	FolderPath string     `json:"folder_path"`
	CanRead    bool       `json:"can_read"`
	CanWrite   bool       `json:"can_write"`
	CanDelete  bool       `json:"can_delete"`
	CanManage  bool       `json:"can_manage"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// PermissionResolver decides who may read, write, delete or manage
// documents under a folder path. Check never returns AccessDenied; Assert
// is the only path by which permission failures surface to callers.
type PermissionResolver interface {
	Check(ctx context.Context, user *models.User, folderPath string, capability notesModels.Capability) (bool, error)
	Assert(ctx context.Context, user *models.User, folderPath string, capability notesModels.Capability) error
	Grant(ctx context.Context, grantedBy *models.User, req *GrantRequest) (*notesModels.FolderPermission, error)
	Revoke(ctx context.Context, revokedBy *models.User, userID int64, folderPath string) error
	ListActiveFor(ctx context.Context, userID int64) ([]notesModels.FolderPermission, error)
}
