package policy

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines policy persistence.
type Repository interface {
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, policyID uuid.UUID) (*Policy, error)
	// ListActiveForDocumentType returns active policies that either carry no
	// document type restriction or match the given type, ordered by
	// descending priority.
	ListActiveForDocumentType(ctx context.Context, documentTypeID uuid.UUID) ([]*Policy, error)
	Update(ctx context.Context, p *Policy) error
}
