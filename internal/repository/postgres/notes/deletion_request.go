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

const deletionColumns = `id, public_id, note_id, status, reason,
		requester_id, requester_email, requester_name, requested_at,
		resolved_by_id, resolved_by_email, resolved_at, rejection_reason,
		idempotency_key, lock_version`

// PostgresDeletionRequestRepository implements the
// DeletionRequestRepository interface.
type PostgresDeletionRequestRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDeletionRequestRepository creates a new deletion request repository.
func NewDeletionRequestRepository(config *postgres.RepositoryConfig) notesRepo.DeletionRequestRepository {
	return &PostgresDeletionRequestRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new pending request. The partial unique index on
// (note_id) WHERE status = 'PENDING' backs the one-pending-per-note
// invariant even under concurrent submissions.
func (r *PostgresDeletionRequestRepository) Create(ctx context.Context, request *models.DeletionRequest) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (public_id, note_id, status, reason,
			requester_id, requester_email, requester_name, requested_at, lock_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.tables.DeletionRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		request.PublicID,
		request.NoteID,
		request.Status,
		request.Reason,
		request.RequesterID,
		request.RequesterEmail,
		request.RequesterName,
		request.RequestedAt,
		request.LockVersion,
	).Scan(&request.ID)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.DuplicateRequestError{NotePublicID: fmt.Sprintf("%d", request.NoteID)}
		}
		return fmt.Errorf("create deletion request: %w", err)
	}

	return nil
}

// GetByPublicID retrieves a request by its public identifier.
func (r *PostgresDeletionRequestRepository) GetByPublicID(ctx context.Context, publicID string) (*models.DeletionRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE public_id = $1`, deletionColumns, r.tables.DeletionRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	request, err := scanDeletionRequest(executor.QueryRow(ctx, query, publicID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Resource: "deletion request", ID: publicID}
		}
		return nil, fmt.Errorf("get deletion request: %w", err)
	}

	return request, nil
}

// Update writes the request conditionally on its optimistic lock token:
// the first resolver wins, the loser gets ConcurrentModification.
func (r *PostgresDeletionRequestRepository) Update(ctx context.Context, request *models.DeletionRequest) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, resolved_by_id = $2, resolved_by_email = $3,
			resolved_at = $4, rejection_reason = $5, idempotency_key = $6,
			lock_version = lock_version + 1
		WHERE id = $7 AND lock_version = $8
	`, r.tables.DeletionRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		request.Status,
		request.ResolvedByID,
		request.ResolvedByEmail,
		request.ResolvedAt,
		request.RejectionReason,
		request.IdempotencyKey,
		request.ID,
		request.LockVersion,
	)
	if err != nil {
		return fmt.Errorf("update deletion request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyMissedUpdate(ctx, request.ID)
	}

	request.LockVersion++
	return nil
}

func (r *PostgresDeletionRequestRepository) classifyMissedUpdate(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.tables.DeletionRequests)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("classify missed deletion request update: %w", err)
	}

	if exists {
		return &domain.ConcurrentModificationError{Resource: "deletion request", ID: fmt.Sprintf("%d", id)}
	}
	return &domain.NotFoundError{Resource: "deletion request", ID: fmt.Sprintf("%d", id)}
}

// ExistsPendingForNote reports whether the note has a pending request.
func (r *PostgresDeletionRequestRepository) ExistsPendingForNote(ctx context.Context, noteID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE note_id = $1 AND status = $2)
	`, r.tables.DeletionRequests)

	var exists bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, noteID, models.RequestPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending deletion request: %w", err)
	}

	return exists, nil
}

// ListPending lists pending requests, oldest first so admins work the
// queue in arrival order.
func (r *PostgresDeletionRequestRepository) ListPending(ctx context.Context, limit, offset int) ([]models.DeletionRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE status = $1
		ORDER BY requested_at ASC LIMIT $2 OFFSET $3
	`, deletionColumns, r.tables.DeletionRequests)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, models.RequestPending, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending deletion requests: %w", err)
	}
	defer rows.Close()

	return collectDeletionRequests(rows)
}

// ListByFilters lists requests matching the filter, newest first.
func (r *PostgresDeletionRequestRepository) ListByFilters(ctx context.Context, filter notesRepo.DeletionFilter) ([]models.DeletionRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE 1=1`, deletionColumns, r.tables.DeletionRequests)
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.RequesterID != 0 {
		args = append(args, filter.RequesterID)
		query += fmt.Sprintf(` AND requester_id = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(` AND requested_at >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(` AND requested_at <= $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY requested_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deletion requests: %w", err)
	}
	defer rows.Close()

	return collectDeletionRequests(rows)
}

func collectDeletionRequests(rows pgx.Rows) ([]models.DeletionRequest, error) {
	result := []models.DeletionRequest{}
	for rows.Next() {
		request, err := scanDeletionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deletion request: %w", err)
		}
		result = append(result, *request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletion requests: %w", err)
	}

	return result, nil
}

func scanDeletionRequest(row pgx.Row) (*models.DeletionRequest, error) {
	var request models.DeletionRequest
	err := row.Scan(
		&request.ID,
		&request.PublicID,
		&request.NoteID,
		&request.Status,
		&request.Reason,
		&request.RequesterID,
		&request.RequesterEmail,
		&request.RequesterName,
		&request.RequestedAt,
		&request.ResolvedByID,
		&request.ResolvedByEmail,
		&request.ResolvedAt,
		&request.RejectionReason,
		&request.IdempotencyKey,
		&request.LockVersion,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
