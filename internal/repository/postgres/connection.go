package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"studynotes/internal/domain/repositories"
)

// RepositoryConfig holds the shared wiring for repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names so dev/test/prod can
// share one database.
type TableNames struct {
	Users             string
	Notes             string
	NoteVersions      string
	DeletionRequests  string
	FolderPermissions string
	AuditLogs         string
}

// NewTableNames creates table names with the given prefix. The prefix is
// interpolated before the SQL is sent, so each environment gets its own
// statements.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:             fmt.Sprintf("%susers", prefix),
		Notes:             fmt.Sprintf("%snotes", prefix),
		NoteVersions:      fmt.Sprintf("%snote_versions", prefix),
		DeletionRequests:  fmt.Sprintf("%sdeletion_requests", prefix),
		FolderPermissions: fmt.Sprintf("%sfolder_permissions", prefix),
		AuditLogs:         fmt.Sprintf("%saudit_logs", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by the context when present,
// otherwise the pool. Repositories call this so they automatically
// participate in the caller's unit of work.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
