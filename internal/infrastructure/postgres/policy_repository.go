package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/policy"
)

const policyColumns = `id, policy_id, name, policy_type, document_type_id, department_id, role_id, rules, active, priority, created_at, updated_at`

// PolicyRepository implements policy.Repository.
type PolicyRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO policies
		(policy_id, name, policy_type, document_type_id, department_id, role_id, rules, active, priority, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.PolicyID, p.Name, p.Type, p.DocumentTypeID, p.DepartmentID, p.RoleID, p.Rules, p.Active, p.Priority, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PolicyRepository) GetByID(ctx context.Context, policyID uuid.UUID) (*policy.Policy, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE policy_id=$1`, policyID)
	return scanPolicy(row)
}

func (r *PolicyRepository) ListActiveForDocumentType(ctx context.Context, documentTypeID uuid.UUID) ([]*policy.Policy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+policyColumns+` FROM policies
		WHERE active AND (document_type_id IS NULL OR document_type_id=$1)
		ORDER BY priority DESC, created_at ASC
	`, documentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var policies []*policy.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (r *PolicyRepository) Update(ctx context.Context, p *policy.Policy) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE policies
		SET name=$1, policy_type=$2, document_type_id=$3, department_id=$4, role_id=$5, rules=$6, active=$7, priority=$8, updated_at=$9
		WHERE policy_id=$10
	`, p.Name, p.Type, p.DocumentTypeID, p.DepartmentID, p.RoleID, p.Rules, p.Active, p.Priority, p.UpdatedAt, p.PolicyID)
	return err
}

func scanPolicy(row pgx.Row) (*policy.Policy, error) {
	var p policy.Policy
	if err := row.Scan(&p.ID, &p.PolicyID, &p.Name, &p.Type, &p.DocumentTypeID, &p.DepartmentID, &p.RoleID, &p.Rules, &p.Active, &p.Priority, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
