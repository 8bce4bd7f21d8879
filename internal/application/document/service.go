package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appApproval "github.com/docflow/docflow/internal/application/approval"
	appAudit "github.com/docflow/docflow/internal/application/audit"
	appPolicy "github.com/docflow/docflow/internal/application/policy"
	"github.com/docflow/docflow/internal/domain/audit"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/user"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrTypeNotFound = errors.New("document type not found or inactive")
	ErrNotSubmitter = errors.New("actor is not the document's submitter")
	ErrNotEditable  = errors.New("document can no longer be edited")
	ErrNotDeletable = errors.New("only draft documents can be deleted")
)

// Service manages the document lifecycle up to and including submission:
// drafting, numbering, the policy gate and approval chain initialization.
// Post-submission decisions live in the workflow service.
type Service struct {
	documentRepo document.Repository
	typeRepo     document.TypeRepository
	policySvc    *appPolicy.Service
	approvalSvc  *appApproval.Service
	auditSvc     *appAudit.Service
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService creates a document service.
func NewService(documentRepo document.Repository, typeRepo document.TypeRepository, policySvc *appPolicy.Service, approvalSvc *appApproval.Service, auditSvc *appAudit.Service, logger zerolog.Logger) *Service {
	return &Service{
		documentRepo: documentRepo,
		typeRepo:     typeRepo,
		policySvc:    policySvc,
		approvalSvc:  approvalSvc,
		auditSvc:     auditSvc,
		logger:       logger.With().Str("service", "document").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create drafts a new document of the given type for the submitter and
// assigns it a sequential document number.
func (s *Service) Create(ctx context.Context, submitterID, documentTypeID uuid.UUID, title string, data json.RawMessage) (*document.Document, error) {
	docType, err := s.typeRepo.GetByID(ctx, documentTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document type: %w", err)
	}
	if docType == nil || !docType.Active {
		return nil, ErrTypeNotFound
	}

	now := s.now()
	number, err := s.nextNumber(ctx, docType, now)
	if err != nil {
		return nil, err
	}
	doc := &document.Document{
		DocumentID:     uuid.New(),
		DocumentNumber: number,
		DocumentTypeID: documentTypeID,
		SubmitterID:    submitterID,
		Title:          title,
		Data:           data,
		Status:         document.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	s.auditSvc.Log(ctx, audit.NewEntry("document_created", audit.EntityTypeDocument, doc.DocumentID, &submitterID,
		nil, map[string]interface{}{"status": string(doc.Status), "documentNumber": doc.DocumentNumber}))
	s.logger.Info().
		Str("documentId", doc.DocumentID.String()).
		Str("documentNumber", doc.DocumentNumber).
		Msg("document created")
	return doc, nil
}

// nextNumber builds the next document number for the type, formatted
// <prefix>-<year>-<sequence> with a zero-padded four digit sequence.
func (s *Service) nextNumber(ctx context.Context, docType *document.Type, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", docType.NumberPrefix(), now.Year())
	count, err := s.documentRepo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count documents for numbering: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

// Update replaces the title and payload of a draft or returned document.
func (s *Service) Update(ctx context.Context, documentID, actorID uuid.UUID, title string, data json.RawMessage) (*document.Document, error) {
	doc, err := s.getOwned(ctx, documentID, actorID)
	if err != nil {
		return nil, err
	}
	if !doc.CanBeEdited() {
		return nil, ErrNotEditable
	}
	doc.Title = title
	doc.Data = data
	doc.UpdatedAt = s.now()
	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

// Submit pushes a draft or returned document into the approval pipeline. The
// policy gate runs first: a policy violation blocks submission and the
// document keeps its current status. On success the approval chain is
// materialized.
func (s *Service) Submit(ctx context.Context, documentID uuid.UUID, actor *user.User) (*document.Document, error) {
	doc, err := s.getOwned(ctx, documentID, actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.policySvc.Evaluate(ctx, actor, doc); err != nil {
		return nil, err
	}

	now := s.now()
	oldStatus := doc.Status
	if err := doc.Submit(now); err != nil {
		return nil, err
	}
	doc.UpdatedAt = now
	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if err := s.approvalSvc.InitializeChain(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to initialize approval chain: %w", err)
	}
	s.auditSvc.Log(ctx, audit.NewEntry("document_submitted", audit.EntityTypeDocument, doc.DocumentID, &actor.UserID,
		map[string]interface{}{"status": string(oldStatus)},
		map[string]interface{}{"status": string(doc.Status)}))
	s.logger.Info().
		Str("documentId", doc.DocumentID.String()).
		Str("documentNumber", doc.DocumentNumber).
		Msg("document submitted")
	return doc, nil
}

// Delete soft-deletes a draft document.
func (s *Service) Delete(ctx context.Context, documentID, actorID uuid.UUID) error {
	doc, err := s.getOwned(ctx, documentID, actorID)
	if err != nil {
		return err
	}
	if !doc.CanBeDeleted() {
		return ErrNotDeletable
	}
	if err := s.documentRepo.SoftDelete(ctx, documentID, s.now()); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.auditSvc.Log(ctx, audit.NewEntry("document_deleted", audit.EntityTypeDocument, documentID, &actorID,
		map[string]interface{}{"status": string(doc.Status)}, nil))
	return nil
}

// Get returns a document by id.
func (s *Service) Get(ctx context.Context, documentID uuid.UUID) (*document.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns documents matching the filter.
func (s *Service) List(ctx context.Context, filter document.Filter, limit, offset int) ([]*document.Document, error) {
	return s.documentRepo.List(ctx, filter, limit, offset)
}

// ListTypes returns the active document types.
func (s *Service) ListTypes(ctx context.Context) ([]*document.Type, error) {
	return s.typeRepo.ListActive(ctx)
}

func (s *Service) getOwned(ctx context.Context, documentID, actorID uuid.UUID) (*document.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	if doc.SubmitterID != actorID {
		return nil, ErrNotSubmitter
	}
	return doc, nil
}
