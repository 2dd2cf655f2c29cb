package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	"studynotes/internal/repository/postgres"
)

const permissionColumns = `id, user_id, folder_path, can_read, can_write,
		can_delete, can_manage, active, expires_at, granted_by_id, granted_at`

// PostgresPermissionRepository implements the PermissionRepository
// interface. Grant rows are never deleted; revocation flips active off.
type PostgresPermissionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewPermissionRepository creates a new permission repository.
func NewPermissionRepository(config *postgres.RepositoryConfig) notesRepo.PermissionRepository {
	return &PostgresPermissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserAndPath returns the single grant row for (user, path),
// regardless of its active flag.
func (r *PostgresPermissionRepository) GetByUserAndPath(ctx context.Context, userID int64, folderPath string) (*models.FolderPermission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE user_id = $1 AND folder_path = $2
	`, permissionColumns, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	permission, err := scanPermission(executor.QueryRow(ctx, query, userID, folderPath))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "folder permission", ID: folderPath}
		}
		return nil, fmt.Errorf("get folder permission: %w", err)
	}

	return permission, nil
}

// Upsert creates the grant row for (user, path) or overwrites its flags,
// expiry and active state if one already exists.
func (r *PostgresPermissionRepository) Upsert(ctx context.Context, permission *models.FolderPermission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_path, can_read, can_write, can_delete,
			can_manage, active, expires_at, granted_by_id, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, folder_path) DO UPDATE
		SET can_read = EXCLUDED.can_read,
			can_write = EXCLUDED.can_write,
			can_delete = EXCLUDED.can_delete,
			can_manage = EXCLUDED.can_manage,
			active = EXCLUDED.active,
			expires_at = EXCLUDED.expires_at,
			granted_by_id = EXCLUDED.granted_by_id,
			granted_at = EXCLUDED.granted_at
		RETURNING id
	`, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		permission.UserID,
		permission.FolderPath,
		permission.CanRead,
		permission.CanWrite,
		permission.CanDelete,
		permission.CanManage,
		permission.Active,
		permission.ExpiresAt,
		permission.GrantedByID,
		permission.GrantedAt,
	).Scan(&permission.ID)

	if err != nil {
		return fmt.Errorf("upsert folder permission: %w", err)
	}

	return nil
}

// Deactivate flips the grant's active flag off, preserving the row.
func (r *PostgresPermissionRepository) Deactivate(ctx context.Context, userID int64, folderPath string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET active = FALSE WHERE user_id = $1 AND folder_path = $2
	`, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, folderPath)
	if err != nil {
		return fmt.Errorf("deactivate folder permission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "folder permission", ID: folderPath}
	}

	return nil
}

// ListCovering returns the user's active, unexpired grants whose folder
// path equals the target or is a path-prefix of it. The "/" boundary in
// the LIKE pattern keeps a grant on "it" from covering "itx".
func (r *PostgresPermissionRepository) ListCovering(ctx context.Context, userID int64, targetPath string, now time.Time) ([]models.FolderPermission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		  AND active = TRUE
		  AND (expires_at IS NULL OR expires_at > $2)
		  AND (folder_path = $3 OR $3 LIKE folder_path || '/%%')
	`, permissionColumns, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, now, targetPath)
	if err != nil {
		return nil, fmt.Errorf("list covering permissions: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

// ListActiveFor returns the user's active, unexpired grants.
func (r *PostgresPermissionRepository) ListActiveFor(ctx context.Context, userID int64, now time.Time) ([]models.FolderPermission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		  AND active = TRUE
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY folder_path ASC
	`, permissionColumns, r.tables.FolderPermissions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list active permissions: %w", err)
	}
	defer rows.Close()

	return collectPermissions(rows)
}

func collectPermissions(rows pgx.Rows) ([]models.FolderPermission, error) {
	result := []models.FolderPermission{}
	for rows.Next() {
		permission, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder permission: %w", err)
		}
		result = append(result, *permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder permissions: %w", err)
	}

	return result, nil
}

func scanPermission(row pgx.Row) (*models.FolderPermission, error) {
	var p models.FolderPermission
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FolderPath,
		&p.CanRead,
		&p.CanWrite,
		&p.CanDelete,
		&p.CanManage,
		&p.Active,
		&p.ExpiresAt,
		&p.GrantedByID,
		&p.GrantedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
