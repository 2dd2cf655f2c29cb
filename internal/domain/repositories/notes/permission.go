package notes

import (
	"context"
	"time"

	models "studynotes/internal/domain/models/notes"
)

// PermissionRepository persists folder permission grants. Grants are
// upserted per (user, folder path) and deactivated on revocation, never
// deleted, so the grant history survives implicitly.
type PermissionRepository interface {
	// GetByUserAndPath returns the single grant row for (user, path)
	// regardless of its active flag, or domain.ErrNotFound.
	GetByUserAndPath(ctx context.Context, userID int64, folderPath string) (*models.FolderPermission, error)

	Upsert(ctx context.Context, permission *models.FolderPermission) error
	Deactivate(ctx context.Context, userID int64, folderPath string) error

	// ListCovering returns the user's active, unexpired grants whose folder
	// path is the target path or a path-prefix of it.
	ListCovering(ctx context.Context, userID int64, targetPath string, now time.Time) ([]models.FolderPermission, error)

	ListActiveFor(ctx context.Context, userID int64, now time.Time) ([]models.FolderPermission, error)
}
