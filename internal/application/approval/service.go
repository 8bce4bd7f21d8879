package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainApproval "github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/template"
	"github.com/docflow/docflow/internal/domain/user"
)

// ErrDuplicateDefault is returned when a second default-active template is
// created for the same document type.
var ErrDuplicateDefault = errors.New("document type already has a default active template")

// Service materializes approval chains: it selects the applicable template
// for a document, resolves each step's approver, and creates the pending
// step records.
type Service struct {
	templateRepo template.Repository
	approvalRepo domainApproval.Repository
	userRepo     user.Repository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService creates an approval chain service.
func NewService(templateRepo template.Repository, approvalRepo domainApproval.Repository, userRepo user.Repository, logger zerolog.Logger) *Service {
	return &Service{
		templateRepo: templateRepo,
		approvalRepo: approvalRepo,
		userRepo:     userRepo,
		logger:       logger.With().Str("service", "approval").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ResolveTemplate returns the best-matching active template for the
// document: templates are ordered default-first and the first whose condition
// holds wins. Nil when no template matches.
func (s *Service) ResolveTemplate(ctx context.Context, doc *document.Document) (*template.ApprovalTemplate, error) {
	templates, err := s.templateRepo.ListActiveByDocumentType(ctx, doc.DocumentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	for _, t := range templates {
		if t.IsApplicable(doc) {
			return t, nil
		}
	}
	return nil, nil
}

// ResolveApprover resolves the concrete approving identity for a template
// step at chain-initialization time. Resolution failure is silent omission:
// a nil user means the step is not created. There is no fallback chaining
// between approver types.
func (s *Service) ResolveApprover(ctx context.Context, step *template.Step, doc *document.Document) (*user.User, error) {
	switch step.ApproverType {
	case template.ApproverSpecificUser:
		if step.UserID == nil {
			return nil, nil
		}
		return s.userRepo.GetByID(ctx, *step.UserID)
	case template.ApproverRole:
		if step.RoleID == nil {
			return nil, nil
		}
		submitter, err := s.userRepo.GetByID(ctx, doc.SubmitterID)
		if err != nil {
			return nil, err
		}
		if submitter == nil || submitter.DepartmentID == nil {
			return nil, nil
		}
		return s.userRepo.FindActiveByRoleInDepartment(ctx, *step.RoleID, *submitter.DepartmentID)
	case template.ApproverDynamic:
		return s.userRepo.ManagerOf(ctx, doc.SubmitterID)
	default:
		return nil, fmt.Errorf("unsupported approver type: %s", step.ApproverType)
	}
}

// InitializeChain creates the document's approval steps from the resolved
// template. Called exactly once per submission, after policies pass; the
// caller owns that guarantee, re-entry duplicates steps. Steps whose approver
// cannot be resolved are omitted without renumbering, so sequence gaps are
// expected. A document whose type has no matching template gets zero steps.
func (s *Service) InitializeChain(ctx context.Context, doc *document.Document) error {
	tmpl, err := s.ResolveTemplate(ctx, doc)
	if err != nil {
		return err
	}
	if tmpl == nil {
		s.logger.Info().Str("document_id", doc.DocumentID.String()).Msg("no matching approval template, chain is empty")
		return nil
	}

	steps, err := s.templateRepo.ListSteps(ctx, tmpl.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to load template steps: %w", err)
	}

	now := s.now()
	created := 0
	for _, ts := range steps {
		approver, err := s.ResolveApprover(ctx, ts, doc)
		if err != nil {
			return fmt.Errorf("failed to resolve approver for step %d: %w", ts.Sequence, err)
		}
		if approver == nil {
			s.logger.Debug().
				Str("document_id", doc.DocumentID.String()).
				Int("sequence", ts.Sequence).
				Msg("no approver resolved, step omitted")
			continue
		}

		step := &domainApproval.Step{
			StepID:         uuid.New(),
			DocumentID:     doc.DocumentID,
			TemplateStepID: &ts.StepID,
			Sequence:       ts.Sequence,
			StepName:       ts.StepName,
			ApproverID:     approver.UserID,
			Status:         domainApproval.StatusPending,
			SLAHours:       ts.SLAHours,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if ts.SLAHours != nil {
			due := now.Add(time.Duration(*ts.SLAHours) * time.Hour)
			step.DueAt = &due
		}
		if err := s.approvalRepo.Create(ctx, step); err != nil {
			return fmt.Errorf("failed to create approval step: %w", err)
		}
		created++
	}

	s.logger.Info().
		Str("document_id", doc.DocumentID.String()).
		Str("template_id", tmpl.TemplateID.String()).
		Int("steps", created).
		Msg("approval chain initialized")
	return nil
}

// CreateTemplate stores a template and its steps, enforcing the at-most-one
// default-active template per document type invariant here rather than
// relying on storage constraints.
func (s *Service) CreateTemplate(ctx context.Context, t *template.ApprovalTemplate, steps []*template.Step) error {
	if err := template.ValidateSteps(steps); err != nil {
		return err
	}
	if t.Default && t.Active {
		exists, err := s.templateRepo.HasDefaultActive(ctx, t.DocumentTypeID, nil)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateDefault
		}
	}
	if t.TemplateID == uuid.Nil {
		t.TemplateID = uuid.New()
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	for _, st := range steps {
		if st.StepID == uuid.Nil {
			st.StepID = uuid.New()
		}
		st.TemplateID = t.TemplateID
	}
	return s.templateRepo.Create(ctx, t, steps)
}

// ListInbox returns an approver's pending steps ordered by due date.
func (s *Service) ListInbox(ctx context.Context, approverID uuid.UUID, limit, offset int) ([]*domainApproval.Step, error) {
	return s.approvalRepo.ListPendingByApprover(ctx, approverID, limit, offset)
}

// GetStep retrieves a step by ID.
func (s *Service) GetStep(ctx context.Context, stepID uuid.UUID) (*domainApproval.Step, error) {
	return s.approvalRepo.GetByID(ctx, stepID)
}

// ListByDocument returns a document's steps in sequence order.
func (s *Service) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*domainApproval.Step, error) {
	return s.approvalRepo.ListByDocument(ctx, documentID)
}
