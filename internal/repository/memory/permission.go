package memory

import (
	"context"
	"sort"
	"time"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
)

type permissionRepository struct {
	store *Store
}

func (r *permissionRepository) GetByUserAndPath(ctx context.Context, userID int64, folderPath string) (*models.FolderPermission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, perm := range r.store.permissions {
		if perm.UserID == userID && perm.FolderPath == folderPath {
			found := perm
			return &found, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "folder permission", ID: folderPath}
}

func (r *permissionRepository) Upsert(ctx context.Context, permission *models.FolderPermission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.permissions {
		if existing.UserID == permission.UserID && existing.FolderPath == permission.FolderPath {
			permission.ID = existing.ID
			r.store.permissions[i] = *permission
			return nil
		}
	}

	r.store.nextPermID++
	permission.ID = r.store.nextPermID
	r.store.permissions = append(r.store.permissions, *permission)
	return nil
}

func (r *permissionRepository) Deactivate(ctx context.Context, userID int64, folderPath string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, existing := range r.store.permissions {
		if existing.UserID == userID && existing.FolderPath == folderPath && existing.Active {
			r.store.permissions[i].Active = false
			return nil
		}
	}
	return &domain.NotFoundError{Resource: "folder permission", ID: folderPath}
}

func (r *permissionRepository) ListCovering(ctx context.Context, userID int64, targetPath string, now time.Time) ([]models.FolderPermission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.FolderPermission{}
	for _, perm := range r.store.permissions {
		if perm.UserID != userID || !perm.ValidAt(now) {
			continue
		}
		if !perm.Covers(targetPath) {
			continue
		}
		matched = append(matched, perm)
	}
	return matched, nil
}

func (r *permissionRepository) ListActiveFor(ctx context.Context, userID int64, now time.Time) ([]models.FolderPermission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := []models.FolderPermission{}
	for _, perm := range r.store.permissions {
		if perm.UserID == userID && perm.ValidAt(now) {
			matched = append(matched, perm)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FolderPath < matched[j].FolderPath
	})

	return matched, nil
}
