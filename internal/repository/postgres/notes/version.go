package notes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	"studynotes/internal/repository/postgres"
)

const versionColumns = `id, note_id, version_number, title, content, size_bytes,
		content_hash, author_id, author_email, change_summary, is_current, created_at`

// PostgresVersionRepository implements the VersionRepository interface.
// Version rows are append-only: there is no UPDATE statement here other
// than the single current-flag clear per snapshot.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository.
func NewVersionRepository(config *postgres.RepositoryConfig) notesRepo.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Insert adds a new immutable version row.
func (r *PostgresVersionRepository) Insert(ctx context.Context, version *models.Version) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (note_id, version_number, title, content, size_bytes,
			content_hash, author_id, author_email, change_summary, is_current, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, r.tables.NoteVersions)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.NoteID,
		version.VersionNumber,
		version.Title,
		version.Content,
		version.SizeBytes,
		version.ContentHash,
		version.AuthorID,
		version.AuthorEmail,
		version.ChangeSummary,
		version.IsCurrent,
		version.CreatedAt,
	).Scan(&version.ID)

	if err != nil {
		return fmt.Errorf("insert note version: %w", err)
	}

	return nil
}

// ClearCurrent drops the is_current flag on all versions of the note.
func (r *PostgresVersionRepository) ClearCurrent(ctx context.Context, noteID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_current = FALSE WHERE note_id = $1 AND is_current = TRUE
	`, r.tables.NoteVersions)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, noteID); err != nil {
		return fmt.Errorf("clear current version: %w", err)
	}

	return nil
}

// ListByNote returns all versions of a note, newest first.
func (r *PostgresVersionRepository) ListByNote(ctx context.Context, noteID int64) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE note_id = $1 ORDER BY version_number DESC
	`, versionColumns, r.tables.NoteVersions)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("list note versions: %w", err)
	}
	defer rows.Close()

	result := []models.Version{}
	for rows.Next() {
		var v models.Version
		err := rows.Scan(
			&v.ID, &v.NoteID, &v.VersionNumber, &v.Title, &v.Content, &v.SizeBytes,
			&v.ContentHash, &v.AuthorID, &v.AuthorEmail, &v.ChangeSummary, &v.IsCurrent, &v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan note version: %w", err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note versions: %w", err)
	}

	return result, nil
}

// GetByNumber retrieves one specific version of a note.
func (r *PostgresVersionRepository) GetByNumber(ctx context.Context, noteID int64, versionNumber int) (*models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE note_id = $1 AND version_number = $2
	`, versionColumns, r.tables.NoteVersions)

	var v models.Version
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, noteID, versionNumber).Scan(
		&v.ID, &v.NoteID, &v.VersionNumber, &v.Title, &v.Content, &v.SizeBytes,
		&v.ContentHash, &v.AuthorID, &v.AuthorEmail, &v.ChangeSummary, &v.IsCurrent, &v.CreatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{
				Resource: "note version",
				ID:       fmt.Sprintf("%d/v%d", noteID, versionNumber),
			}
		}
		return nil, fmt.Errorf("get note version: %w", err)
	}

	return &v, nil
}
