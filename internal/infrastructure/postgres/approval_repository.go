package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/document"
)

const approvalStepColumns = `id, step_id, document_id, template_step_id, sequence, step_name, approver_id, delegated_from_id, delegation_start_at, delegation_end_at, status, action_taken_at, action_taken_by, comment, sla_hours, due_at, created_at, updated_at`

// ApprovalRepository implements approval.Repository. Decisions that touch
// both a step and its document run inside a transaction; advancement takes a
// row lock on the document so the final transition fires exactly once even
// under concurrent approvals.
type ApprovalRepository struct {
	pool *pgxpool.Pool
}

func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{pool: pool}
}

func (r *ApprovalRepository) Create(ctx context.Context, s *approval.Step) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO approval_steps
		(step_id, document_id, template_step_id, sequence, step_name, approver_id, delegated_from_id, delegation_start_at, delegation_end_at, status, action_taken_at, action_taken_by, comment, sla_hours, due_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, s.StepID, s.DocumentID, s.TemplateStepID, s.Sequence, s.StepName, s.ApproverID, s.DelegatedFromID, s.DelegationStartAt, s.DelegationEndAt, s.Status, s.ActionTakenAt, s.ActionTakenBy, s.Comment, s.SLAHours, s.DueAt, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ApprovalRepository) GetByID(ctx context.Context, stepID uuid.UUID) (*approval.Step, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+approvalStepColumns+` FROM approval_steps WHERE step_id=$1`, stepID)
	return scanApprovalStep(row)
}

func (r *ApprovalRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*approval.Step, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+approvalStepColumns+` FROM approval_steps
		WHERE document_id=$1 ORDER BY sequence, created_at
	`, documentID)
	if err != nil {
		return nil, err
	}
	return collectSteps(rows)
}

func (r *ApprovalRepository) ListPendingByApprover(ctx context.Context, approverID uuid.UUID, limit, offset int) ([]*approval.Step, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+approvalStepColumns+` FROM approval_steps
		WHERE approver_id=$1 AND status=$2
		ORDER BY due_at ASC NULLS LAST, created_at ASC
		LIMIT $3 OFFSET $4
	`, approverID, approval.StatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectSteps(rows)
}

func (r *ApprovalRepository) Update(ctx context.Context, s *approval.Step) error {
	return r.updateStep(ctx, r.pool, s)
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *ApprovalRepository) updateStep(ctx context.Context, q execer, s *approval.Step) error {
	_, err := q.Exec(ctx, `
		UPDATE approval_steps
		SET approver_id=$1, delegated_from_id=$2, delegation_start_at=$3, delegation_end_at=$4, status=$5, action_taken_at=$6, action_taken_by=$7, comment=$8, updated_at=$9
		WHERE step_id=$10
	`, s.ApproverID, s.DelegatedFromID, s.DelegationStartAt, s.DelegationEndAt, s.Status, s.ActionTakenAt, s.ActionTakenBy, s.Comment, time.Now().UTC(), s.StepID)
	return err
}

// SaveDecision persists a decided step together with its document and, when
// requested, skips the document's remaining pending steps, all in one
// transaction.
func (r *ApprovalRepository) SaveDecision(ctx context.Context, step *approval.Step, doc *document.Document, skipSiblings bool, now time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if step != nil {
		if err := r.updateStep(ctx, tx, step); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `
		UPDATE documents SET status=$1, submitted_at=$2, completed_at=$3, updated_at=$4 WHERE document_id=$5
	`, doc.Status, doc.SubmittedAt, doc.CompletedAt, now, doc.DocumentID); err != nil {
		return err
	}
	if skipSiblings {
		var exclude *uuid.UUID
		if step != nil {
			exclude = &step.StepID
		}
		if _, err := tx.Exec(ctx, `
			UPDATE approval_steps SET status=$1, updated_at=$2
			WHERE document_id=$3 AND status=$4 AND ($5::uuid IS NULL OR step_id <> $5)
		`, approval.StatusSkipped, now, doc.DocumentID, approval.StatusPending, exclude); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// AdvanceDocument locks the document row and, when every step is resolved
// with no rejections or returns among the non-skipped ones, transitions it to
// approved. The row lock makes the completion transition exactly-once under
// concurrent sibling approvals.
func (r *ApprovalRepository) AdvanceDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var status document.Status
	err = tx.QueryRow(ctx, `
		SELECT status FROM documents WHERE document_id=$1 FOR UPDATE
	`, documentID).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, fmt.Errorf("document %s not found", documentID)
		}
		return false, err
	}
	if status != document.StatusPending {
		return false, nil
	}

	var pending, unapproved int64
	err = tx.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status=$2),
			COUNT(*) FILTER (WHERE status NOT IN ($3, $4))
		FROM approval_steps WHERE document_id=$1
	`, documentID, approval.StatusPending, approval.StatusApproved, approval.StatusSkipped).Scan(&pending, &unapproved)
	if err != nil {
		return false, err
	}
	if pending > 0 || unapproved > 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE documents SET status=$1, completed_at=$2, updated_at=$2 WHERE document_id=$3
	`, document.StatusApproved, now, documentID); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (r *ApprovalRepository) CountPendingByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM approval_steps WHERE document_id=$1 AND status=$2
	`, documentID, approval.StatusPending)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ApprovalRepository) CountPendingByApprover(ctx context.Context, approverID uuid.UUID) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM approval_steps WHERE approver_id=$1 AND status=$2
	`, approverID, approval.StatusPending)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ApprovalRepository) CountBreachedByApprover(ctx context.Context, approverID uuid.UUID, now time.Time) (int64, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM approval_steps
		WHERE approver_id=$1 AND status=$2 AND due_at IS NOT NULL AND due_at < $3
	`, approverID, approval.StatusPending, now)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectSteps(rows pgx.Rows) ([]*approval.Step, error) {
	defer rows.Close()
	var steps []*approval.Step
	for rows.Next() {
		s, err := scanApprovalStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func scanApprovalStep(row pgx.Row) (*approval.Step, error) {
	var s approval.Step
	if err := row.Scan(&s.ID, &s.StepID, &s.DocumentID, &s.TemplateStepID, &s.Sequence, &s.StepName, &s.ApproverID, &s.DelegatedFromID, &s.DelegationStartAt, &s.DelegationEndAt, &s.Status, &s.ActionTakenAt, &s.ActionTakenBy, &s.Comment, &s.SLAHours, &s.DueAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
