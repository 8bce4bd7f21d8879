package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appAudit "github.com/docflow/docflow/internal/application/audit"
	"github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/audit"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/user"
)

var (
	ErrNotFound         = errors.New("approval step not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrCommentRequired  = errors.New("a comment is required for this action")
	ErrNotApprover      = errors.New("actor is not the step's assigned approver")
	ErrNotSubmitter     = errors.New("actor is not the document's submitter")
	ErrUserNotFound     = errors.New("delegate target user not found or inactive")
)

// Service drives the runtime approval workflow: approver decisions, the
// resulting document transitions, sibling-step cascades, delegation and
// cancellation. All mutations of one document are serialized through a
// per-document lock so concurrent decisions observe each other.
type Service struct {
	approvalRepo approval.Repository
	documentRepo document.Repository
	userRepo     user.Repository
	auditSvc     *appAudit.Service
	logger       zerolog.Logger
	now          func() time.Time

	delegationWindow time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a workflow service. delegationWindow is the validity
// window applied to delegations without an explicit end date.
func NewService(approvalRepo approval.Repository, documentRepo document.Repository, userRepo user.Repository, auditSvc *appAudit.Service, logger zerolog.Logger, delegationWindow time.Duration) *Service {
	return &Service{
		approvalRepo:     approvalRepo,
		documentRepo:     documentRepo,
		userRepo:         userRepo,
		auditSvc:         auditSvc,
		logger:           logger.With().Str("service", "workflow").Logger(),
		now:              func() time.Time { return time.Now().UTC() },
		delegationWindow: delegationWindow,
		locks:            map[uuid.UUID]*docLock{},
	}
}

// lockDocument acquires the document's lock, creating it on first use. The
// returned function releases the lock and drops the table entry once no
// goroutine holds or waits for it.
func (s *Service) lockDocument(documentID uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[documentID]
	if !ok {
		l = &docLock{}
		s.locks[documentID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, documentID)
		}
		s.mu.Unlock()
	}
}

// Approve records the actor's approval on a pending step. When the decision
// leaves no pending steps and every non-skipped step is approved, the
// document transitions to approved exactly once.
func (s *Service) Approve(ctx context.Context, stepID, actorID uuid.UUID, comment *string) (*approval.Step, error) {
	step, unlock, err := s.lockStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if step.ApproverID != actorID {
		return nil, ErrNotApprover
	}
	now := s.now()
	oldStatus := step.Status
	if err := step.Approve(actorID, comment, now); err != nil {
		return nil, err
	}
	if err := s.approvalRepo.Update(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to save approval: %w", err)
	}
	s.auditStep(ctx, "step_approved", step, &actorID, oldStatus, comment)

	advanced, err := s.approvalRepo.AdvanceDocument(ctx, step.DocumentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to advance document: %w", err)
	}
	if advanced {
		s.auditSvc.Log(ctx, audit.NewEntry("document_approved", audit.EntityTypeDocument, step.DocumentID, &actorID,
			map[string]interface{}{"status": string(document.StatusPending)},
			map[string]interface{}{"status": string(document.StatusApproved)}))
		s.logger.Info().
			Str("documentId", step.DocumentID.String()).
			Msg("document fully approved")
	}
	return step, nil
}

// Reject records the actor's rejection. The document transitions to rejected
// and the remaining pending sibling steps are skipped; a comment is
// mandatory.
func (s *Service) Reject(ctx context.Context, stepID, actorID uuid.UUID, comment *string) (*approval.Step, error) {
	return s.decline(ctx, stepID, actorID, comment, approval.StatusRejected)
}

// Return sends the document back to its submitter for rework. The remaining
// pending sibling steps are skipped; a comment is mandatory. The document
// stays re-submittable.
func (s *Service) Return(ctx context.Context, stepID, actorID uuid.UUID, comment *string) (*approval.Step, error) {
	return s.decline(ctx, stepID, actorID, comment, approval.StatusReturned)
}

func (s *Service) decline(ctx context.Context, stepID, actorID uuid.UUID, comment *string, target approval.Status) (*approval.Step, error) {
	if comment == nil || *comment == "" {
		return nil, ErrCommentRequired
	}
	step, unlock, err := s.lockStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if step.ApproverID != actorID {
		return nil, ErrNotApprover
	}
	doc, err := s.documentRepo.GetByID(ctx, step.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	now := s.now()
	oldStepStatus := step.Status
	oldDocStatus := doc.Status
	var stepAction, docAction string
	switch target {
	case approval.StatusRejected:
		if err := step.Reject(actorID, comment, now); err != nil {
			return nil, err
		}
		if err := doc.Reject(now); err != nil {
			return nil, err
		}
		stepAction, docAction = "step_rejected", "document_rejected"
	case approval.StatusReturned:
		if err := step.Return(actorID, comment, now); err != nil {
			return nil, err
		}
		if err := doc.Return(); err != nil {
			return nil, err
		}
		stepAction, docAction = "step_returned", "document_returned"
	default:
		return nil, approval.ErrInvalidTransition
	}

	if err := s.approvalRepo.SaveDecision(ctx, step, doc, true, now); err != nil {
		return nil, fmt.Errorf("failed to save decision: %w", err)
	}
	s.auditStep(ctx, stepAction, step, &actorID, oldStepStatus, comment)
	s.auditSvc.Log(ctx, audit.NewEntry(docAction, audit.EntityTypeDocument, doc.DocumentID, &actorID,
		map[string]interface{}{"status": string(oldDocStatus)},
		map[string]interface{}{"status": string(doc.Status)}))
	s.logger.Info().
		Str("stepId", step.StepID.String()).
		Str("documentId", doc.DocumentID.String()).
		Str("status", string(doc.Status)).
		Msg("document declined")
	return step, nil
}

// Delegate reassigns a pending step from its current approver to another
// active user. The step stays pending under the new approver.
func (s *Service) Delegate(ctx context.Context, stepID, actorID, toUserID uuid.UUID, endAt *time.Time) (*approval.Step, error) {
	step, unlock, err := s.lockStep(ctx, stepID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if step.ApproverID != actorID {
		return nil, ErrNotApprover
	}
	target, err := s.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delegate target: %w", err)
	}
	if target == nil || !target.IsActive() {
		return nil, ErrUserNotFound
	}

	now := s.now()
	if err := step.Delegate(actorID, toUserID, endAt, now, s.delegationWindow); err != nil {
		return nil, err
	}
	if err := s.approvalRepo.Update(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to save delegation: %w", err)
	}
	s.auditSvc.Log(ctx, audit.NewEntry("step_delegated", audit.EntityTypeStep, step.StepID, &actorID,
		map[string]interface{}{"approverId": actorID.String()},
		map[string]interface{}{"approverId": toUserID.String(), "delegationEndAt": step.DelegationEndAt}))
	s.logger.Info().
		Str("stepId", step.StepID.String()).
		Str("from", actorID.String()).
		Str("to", toUserID.String()).
		Msg("approval step delegated")
	return step, nil
}

// Cancel withdraws a pending document at the submitter's request. All
// pending steps are skipped.
func (s *Service) Cancel(ctx context.Context, documentID, actorID uuid.UUID) (*document.Document, error) {
	unlock := s.lockDocument(documentID)
	defer unlock()

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if doc.SubmitterID != actorID {
		return nil, ErrNotSubmitter
	}

	now := s.now()
	oldStatus := doc.Status
	if err := doc.Cancel(); err != nil {
		return nil, err
	}
	if err := s.approvalRepo.SaveDecision(ctx, nil, doc, true, now); err != nil {
		return nil, fmt.Errorf("failed to save cancellation: %w", err)
	}
	s.auditSvc.Log(ctx, audit.NewEntry("document_cancelled", audit.EntityTypeDocument, doc.DocumentID, &actorID,
		map[string]interface{}{"status": string(oldStatus)},
		map[string]interface{}{"status": string(doc.Status)}))
	s.logger.Info().
		Str("documentId", doc.DocumentID.String()).
		Msg("document cancelled")
	return doc, nil
}

// lockStep loads the step and acquires its document's lock, then reloads the
// step so the caller sees the state as of lock acquisition.
func (s *Service) lockStep(ctx context.Context, stepID uuid.UUID) (*approval.Step, func(), error) {
	step, err := s.approvalRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load approval step: %w", err)
	}
	if step == nil {
		return nil, nil, ErrNotFound
	}
	unlock := s.lockDocument(step.DocumentID)
	step, err = s.approvalRepo.GetByID(ctx, stepID)
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("failed to load approval step: %w", err)
	}
	if step == nil {
		unlock()
		return nil, nil, ErrNotFound
	}
	return step, unlock, nil
}

func (s *Service) auditStep(ctx context.Context, action string, step *approval.Step, actorID *uuid.UUID, oldStatus approval.Status, comment *string) {
	newValues := map[string]interface{}{"status": string(step.Status)}
	if comment != nil {
		newValues["comment"] = *comment
	}
	s.auditSvc.Log(ctx, audit.NewEntry(action, audit.EntityTypeStep, step.StepID, actorID,
		map[string]interface{}{"status": string(oldStatus)}, newValues))
}
