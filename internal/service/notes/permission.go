package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"studynotes/internal/config"
	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	notesModels "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	services "studynotes/internal/domain/services/notes"
)

type permissionResolver struct {
	permRepo notesRepo.PermissionRepository
	audit    services.AuditTrail
	logger   *slog.Logger
}

// NewPermissionResolver creates the folder permission resolver.
func NewPermissionResolver(permRepo notesRepo.PermissionRepository, audit services.AuditTrail, logger *slog.Logger) services.PermissionResolver {
	return &permissionResolver{
		permRepo: permRepo,
		audit:    audit,
		logger:   logger,
	}
}

// Check evaluates one capability on one folder path:
//
//  1. Admins hold every capability unconditionally.
//  2. READ is implicitly granted by membership in the path's department,
//     or by any explicit covering grant.
//  3. WRITE requires department membership AND an explicit covering grant.
//  4. DELETE and MANAGE are explicit-grant only.
//
// Explicit grants are a logical OR across all active, unexpired grants
// whose path contains the target; there is no precedence ordering.
func (s *permissionResolver) Check(ctx context.Context, user *models.User, folderPath string, capability notesModels.Capability) (bool, error) {
	if user == nil || !user.Enabled {
		return false, nil
	}
	if user.IsAdmin() {
		return true, nil
	}

	inDepartment := user.HasDepartment(notesModels.Department(folderPath))

	switch capability {
	case notesModels.CapabilityRead:
		if inDepartment {
			return true, nil
		}
	case notesModels.CapabilityWrite:
		if !inDepartment {
			return false, nil
		}
	case notesModels.CapabilityDelete, notesModels.CapabilityManage:
		// No implicit department grant.
	default:
		return false, nil
	}

	grants, err := s.permRepo.ListCovering(ctx, user.ID, folderPath, time.Now().UTC())
	if err != nil {
		return false, err
	}

	for i := range grants {
		if grants[i].Grants(capability) {
			return true, nil
		}
	}
	return false, nil
}

func (s *permissionResolver) Assert(ctx context.Context, user *models.User, folderPath string, capability notesModels.Capability) error {
	allowed, err := s.Check(ctx, user, folderPath, capability)
	if err != nil {
		return err
	}
	if !allowed {
		return &domain.AccessDeniedError{FolderPath: folderPath}
	}
	return nil
}

func (s *permissionResolver) Grant(ctx context.Context, grantedBy *models.User, req *services.GrantRequest) (*notesModels.FolderPermission, error) {
	if err := s.validateGrant(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.Assert(ctx, grantedBy, req.FolderPath, notesModels.CapabilityManage); err != nil {
		return nil, err
	}

	permission := &notesModels.FolderPermission{
		UserID:      req.UserID,
		FolderPath:  req.FolderPath,
		CanRead:     req.CanRead,
		CanWrite:    req.CanWrite,
		CanDelete:   req.CanDelete,
		CanManage:   req.CanManage,
		Active:      true,
		ExpiresAt:   req.ExpiresAt,
		GrantedByID: grantedBy.ID,
		GrantedAt:   time.Now().UTC(),
	}

	// One row per (user, folder path): granting again overwrites flags,
	// expiry and active state.
	if err := s.permRepo.Upsert(ctx, permission); err != nil {
		return nil, err
	}

	s.logger.Info("folder permission granted",
		"user_id", req.UserID,
		"folder_path", req.FolderPath,
		"granted_by", grantedBy.ID,
	)

	s.audit.RecordBestEffort(ctx, services.AuditEntry{
		Action:      notesModels.ActionPermissionGranted,
		Actor:       grantedBy,
		TargetType:  "folder_permission",
		TargetID:    req.FolderPath,
		Description: fmt.Sprintf("granted folder permission to user %d on %s", req.UserID, req.FolderPath),
	})

	return permission, nil
}

func (s *permissionResolver) Revoke(ctx context.Context, revokedBy *models.User, userID int64, folderPath string) error {
	if err := s.Assert(ctx, revokedBy, folderPath, notesModels.CapabilityManage); err != nil {
		return err
	}

	// Soft revocation: the row stays as inactive grant history.
	if err := s.permRepo.Deactivate(ctx, userID, folderPath); err != nil {
		return err
	}

	s.logger.Info("folder permission revoked",
		"user_id", userID,
		"folder_path", folderPath,
		"revoked_by", revokedBy.ID,
	)

	s.audit.RecordBestEffort(ctx, services.AuditEntry{
		Action:      notesModels.ActionPermissionRevoked,
		Actor:       revokedBy,
		TargetType:  "folder_permission",
		TargetID:    folderPath,
		Description: fmt.Sprintf("revoked folder permission of user %d on %s", userID, folderPath),
	})

	return nil
}

func (s *permissionResolver) ListActiveFor(ctx context.Context, userID int64) ([]notesModels.FolderPermission, error) {
	return s.permRepo.ListActiveFor(ctx, userID, time.Now().UTC())
}

func (s *permissionResolver) validateGrant(req *services.GrantRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.FolderPath,
			validation.Required,
			validation.Length(1, config.MaxFolderPathLength),
		),
	)
}
