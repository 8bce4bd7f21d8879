package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/template"
)

const templateColumns = `id, template_id, document_type_id, name, description, condition, is_default, active, created_at, updated_at`

// TemplateRepository implements template.Repository. A template and its step
// definitions are created together in one transaction.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.ApprovalTemplate, steps []*template.Step) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	condition, err := marshalCondition(t.Condition)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO approval_templates
		(template_id, document_type_id, name, description, condition, is_default, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, t.TemplateID, t.DocumentTypeID, t.Name, t.Description, condition, t.Default, t.Active, t.CreatedAt, t.UpdatedAt); err != nil {
		return err
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, `
			INSERT INTO approval_template_steps
			(step_id, template_id, sequence, step_name, approver_type, role_id, user_id, parallel, sla_hours)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, step.StepID, t.TemplateID, step.Sequence, step.StepName, step.ApproverType, step.RoleID, step.UserID, step.Parallel, step.SLAHours); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *TemplateRepository) GetByID(ctx context.Context, templateID uuid.UUID) (*template.ApprovalTemplate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM approval_templates WHERE template_id=$1`, templateID)
	return scanTemplate(row)
}

func (r *TemplateRepository) ListActiveByDocumentType(ctx context.Context, documentTypeID uuid.UUID) ([]*template.ApprovalTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM approval_templates
		WHERE document_type_id=$1 AND active
		ORDER BY is_default DESC, created_at ASC
	`, documentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var templates []*template.ApprovalTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) ListSteps(ctx context.Context, templateID uuid.UUID) ([]*template.Step, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, step_id, template_id, sequence, step_name, approver_type, role_id, user_id, parallel, sla_hours
		FROM approval_template_steps WHERE template_id=$1 ORDER BY sequence
	`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var steps []*template.Step
	for rows.Next() {
		var s template.Step
		if err := rows.Scan(&s.ID, &s.StepID, &s.TemplateID, &s.Sequence, &s.StepName, &s.ApproverType, &s.RoleID, &s.UserID, &s.Parallel, &s.SLAHours); err != nil {
			return nil, err
		}
		steps = append(steps, &s)
	}
	return steps, rows.Err()
}

func (r *TemplateRepository) HasDefaultActive(ctx context.Context, documentTypeID uuid.UUID, excludeTemplateID *uuid.UUID) (bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM approval_templates
			WHERE document_type_id=$1 AND is_default AND active
			  AND ($2::uuid IS NULL OR template_id <> $2)
		)
	`, documentTypeID, excludeTemplateID)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *template.ApprovalTemplate) error {
	condition, err := marshalCondition(t.Condition)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE approval_templates
		SET name=$1, description=$2, condition=$3, is_default=$4, active=$5, updated_at=$6
		WHERE template_id=$7
	`, t.Name, t.Description, condition, t.Default, t.Active, t.UpdatedAt, t.TemplateID)
	return err
}

func marshalCondition(rule *template.Rule) ([]byte, error) {
	if rule == nil {
		return nil, nil
	}
	return json.Marshal(rule)
}

func scanTemplate(row pgx.Row) (*template.ApprovalTemplate, error) {
	var t template.ApprovalTemplate
	var condition []byte
	if err := row.Scan(&t.ID, &t.TemplateID, &t.DocumentTypeID, &t.Name, &t.Description, &condition, &t.Default, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(condition) > 0 {
		var rule template.Rule
		if err := json.Unmarshal(condition, &rule); err != nil {
			return nil, err
		}
		t.Condition = &rule
	}
	return &t, nil
}
