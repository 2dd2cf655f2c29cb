package notes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	models "studynotes/internal/domain/models/notes"
	notesRepo "studynotes/internal/domain/repositories/notes"
	"studynotes/internal/repository/postgres"
)

const auditColumns = `id, correlation_id, actor_id, actor_email, actor_role,
		action, target_type, target_id, description, previous_state, new_state,
		ip_address, user_agent, timestamp`

// PostgresAuditRepository implements the AuditRepository interface.
//
// Insert deliberately writes through the pool rather than any transaction
// carried by the context: each audit record commits in its own durability
// boundary, so a later rollback of the surrounding business transaction
// cannot take the forensic evidence with it.
type PostgresAuditRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(config *postgres.RepositoryConfig) notesRepo.AuditRepository {
	return &PostgresAuditRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Insert appends an audit record. There is no update or delete.
func (r *PostgresAuditRepository) Insert(ctx context.Context, record *models.AuditRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (correlation_id, actor_id, actor_email, actor_role,
			action, target_type, target_id, description, previous_state, new_state,
			ip_address, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, r.tables.AuditLogs)

	// Pool, not GetExecutor: see type comment.
	err := r.pool.QueryRow(ctx, query,
		record.CorrelationID,
		record.ActorID,
		record.ActorEmail,
		record.ActorRole,
		record.Action,
		record.TargetType,
		record.TargetID,
		record.Description,
		record.PreviousState,
		record.NewState,
		record.IPAddress,
		record.UserAgent,
		record.Timestamp,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}

	return nil
}

// Query returns records matching the filter, newest first.
func (r *PostgresAuditRepository) Query(ctx context.Context, filter models.AuditFilter) ([]models.AuditRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE 1=1`, auditColumns, r.tables.AuditLogs)
	args := []interface{}{}

	if filter.ActorID != 0 {
		args = append(args, filter.ActorID)
		query += fmt.Sprintf(` AND actor_id = $%d`, len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(` AND action = $%d`, len(args))
	}
	if filter.TargetType != "" {
		args = append(args, filter.TargetType)
		query += fmt.Sprintf(` AND target_type = $%d`, len(args))
	}
	if filter.TargetID != "" {
		args = append(args, filter.TargetID)
		query += fmt.Sprintf(` AND target_id = $%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(` AND timestamp >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(` AND timestamp <= $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY timestamp DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	result := []models.AuditRecord{}
	for rows.Next() {
		var record models.AuditRecord
		err := rows.Scan(
			&record.ID,
			&record.CorrelationID,
			&record.ActorID,
			&record.ActorEmail,
			&record.ActorRole,
			&record.Action,
			&record.TargetType,
			&record.TargetID,
			&record.Description,
			&record.PreviousState,
			&record.NewState,
			&record.IPAddress,
			&record.UserAgent,
			&record.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		result = append(result, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}

	return result, nil
}
