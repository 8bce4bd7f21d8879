package template

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines approval template persistence.
type Repository interface {
	Create(ctx context.Context, t *ApprovalTemplate, steps []*Step) error
	GetByID(ctx context.Context, templateID uuid.UUID) (*ApprovalTemplate, error)
	// ListActiveByDocumentType returns active templates for the type ordered
	// default-first, then by creation time.
	ListActiveByDocumentType(ctx context.Context, documentTypeID uuid.UUID) ([]*ApprovalTemplate, error)
	// ListSteps returns the template's steps in ascending sequence order.
	ListSteps(ctx context.Context, templateID uuid.UUID) ([]*Step, error)
	// HasDefaultActive reports whether another default-active template exists
	// for the document type. The chain builder enforces the at-most-one
	// default invariant through it, not just storage constraints.
	HasDefaultActive(ctx context.Context, documentTypeID uuid.UUID, excludeTemplateID *uuid.UUID) (bool, error)
	Update(ctx context.Context, t *ApprovalTemplate) error
}
