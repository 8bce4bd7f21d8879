package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/audit"
)

// AuditRepository implements audit.Repository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Create(ctx context.Context, e *audit.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs
		(audit_id, action, entity_type, entity_id, actor_id, old_values, new_values, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, e.AuditID, e.Action, e.EntityType, e.EntityID, e.ActorID, e.OldValues, e.NewValues, e.CreatedAt)
	return err
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, audit_id, action, entity_type, entity_id, actor_id, old_values, new_values, created_at
		FROM audit_logs
		WHERE entity_type=$1 AND entity_id=$2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, entityType, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.AuditID, &e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &e.OldValues, &e.NewValues, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
