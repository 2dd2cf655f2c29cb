package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studynotes/internal/domain"
	"studynotes/internal/domain/models"
	"studynotes/internal/domain/repositories"
)

const userColumns = `id, public_id, email, name, role, departments, enabled, created_at`

// PostgresUserRepository implements the UserRepository interface.
// Departments are stored as a text array; pgx maps them to []string.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByPublicID retrieves a user by public identifier.
func (r *PostgresUserRepository) GetByPublicID(ctx context.Context, publicID string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE public_id = $1`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	user, err := scanUser(executor.QueryRow(ctx, query, publicID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "user", ID: publicID}
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, userColumns, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	user, err := scanUser(executor.QueryRow(ctx, query, email))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "user", ID: email}
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// Create inserts a new user. Seeding and tests only.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (public_id, email, name, role, departments, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.PublicID,
		user.Email,
		user.Name,
		user.Role,
		user.Departments,
		user.Enabled,
		user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("user %s already exists: %w", user.Email, domain.ErrValidation)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Departments,
		&user.Enabled,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
