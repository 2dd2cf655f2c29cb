package notes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studynotes/internal/domain"
	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	"studynotes/internal/repository/postgres"
)

const noteColumns = `id, public_id, title, department, year, section, subject,
		content, size_bytes, current_version, status,
		uploader_id, uploader_email, uploader_name, likes, dislikes,
		lock_version, created_at, updated_at, published_at, deleted_at`

// PostgresNoteRepository implements the NoteRepository interface.
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(config *postgres.RepositoryConfig) notesRepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new note and fills its internal key and lock token.
func (r *PostgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (public_id, title, department, year, section, subject,
			content, size_bytes, current_version, status,
			uploader_id, uploader_email, uploader_name, likes, dislikes,
			lock_version, created_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, lock_version
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		note.PublicID,
		note.Title,
		note.Folder.Department,
		note.Folder.Year,
		note.Folder.Section,
		note.Folder.Subject,
		note.Content,
		note.SizeBytes,
		note.CurrentVersion,
		note.Status,
		note.UploaderID,
		note.UploaderEmail,
		note.UploaderName,
		note.Likes,
		note.Dislikes,
		note.LockVersion,
		note.CreatedAt,
		note.PublishedAt,
	).Scan(&note.ID, &note.LockVersion)

	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	return nil
}

// GetByID retrieves a note by its internal key.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, noteColumns, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	note, err := scanNote(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", id)}
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

// GetByPublicID retrieves a note by its public identifier.
func (r *PostgresNoteRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE public_id = $1`, noteColumns, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	note, err := scanNote(executor.QueryRow(ctx, query, publicID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "note", ID: publicID}
		}
		return nil, fmt.Errorf("get note by public id: %w", err)
	}

	return note, nil
}

// Update writes the note conditionally on its optimistic lock token. A
// stale token fails with ConcurrentModification and writes nothing; the
// in-memory token is bumped on success to match the stored row.
func (r *PostgresNoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, content = $2, size_bytes = $3, current_version = $4,
			status = $5, likes = $6, dislikes = $7,
			updated_at = $8, published_at = $9, deleted_at = $10,
			lock_version = lock_version + 1
		WHERE id = $11 AND lock_version = $12
	`, r.tables.Notes)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		note.Title,
		note.Content,
		note.SizeBytes,
		note.CurrentVersion,
		note.Status,
		note.Likes,
		note.Dislikes,
		note.UpdatedAt,
		note.PublishedAt,
		note.DeletedAt,
		note.ID,
		note.LockVersion,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, note.ID)
	}

	note.LockVersion++
	return nil
}

// classifyMissedUpdate distinguishes a stale lock token from a missing row.
func (r *PostgresNoteRepository) classifyMissedUpdate(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.tables.Notes)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("classify missed note update: %w", err)
	}

	if exists {
		return &domain.ConcurrentModificationError{Resource: "note", ID: fmt.Sprintf("%d", id)}
	}
	return &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", id)}
}

// IncrementVote bumps a feedback counter in place. The increment bypasses
// the lock token so concurrent votes and content updates never trip each
// other's optimistic checks.
func (r *PostgresNoteRepository) IncrementVote(ctx context.Context, id int64, vote models.VoteKind) (int, error) {
	column := "likes"
	if vote == models.VoteDislike {
		column = "dislikes"
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = %s + 1 WHERE id = $1 RETURNING %s
	`, r.tables.Notes, column, column, column)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&count); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return 0, &domain.NotFoundError{Resource: "note", ID: fmt.Sprintf("%d", id)}
		}
		return 0, fmt.Errorf("increment note vote: %w", err)
	}

	return count, nil
}

// ListByUploader lists an uploader's notes, optionally filtered by status,
// most recently touched first.
func (r *PostgresNoteRepository) ListByUploader(ctx context.Context, uploaderID int64, status *models.Status, limit, offset int) ([]models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE uploader_id = $1`, noteColumns, r.tables.Notes)
	args := []interface{}{uploaderID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}

	query += fmt.Sprintf(` ORDER BY COALESCE(updated_at, created_at) DESC LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes by uploader: %w", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		result = append(result, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	return result, nil
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID,
		&note.PublicID,
		&note.Title,
		&note.Folder.Department,
		&note.Folder.Year,
		&note.Folder.Section,
		&note.Folder.Subject,
		&note.Content,
		&note.SizeBytes,
		&note.CurrentVersion,
		&note.Status,
		&note.UploaderID,
		&note.UploaderEmail,
		&note.UploaderName,
		&note.Likes,
		&note.Dislikes,
		&note.LockVersion,
		&note.CreatedAt,
		&note.UpdatedAt,
		&note.PublishedAt,
		&note.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}
