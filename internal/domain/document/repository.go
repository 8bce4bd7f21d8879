package document

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,TypeRepository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines document persistence.
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, documentID uuid.UUID) (*Document, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Document, error)
	Update(ctx context.Context, d *Document) error
	SoftDelete(ctx context.Context, documentID uuid.UUID, now time.Time) error

	// SumPayloadField sums a numeric payload field across the submitter's
	// documents of the given type in the given statuses created within the
	// calendar year. Used by quota policies.
	SumPayloadField(ctx context.Context, submitterID, documentTypeID uuid.UUID, statuses []Status, year int, field string) (float64, error)
	// CountByNumberPrefix counts documents whose number starts with the
	// prefix, for sequential number generation.
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	// CountByStatus returns document counts per status for a submitter.
	CountByStatus(ctx context.Context, submitterID uuid.UUID) (map[Status]int64, error)
}

// Filter represents document query filters.
type Filter struct {
	SubmitterID    *uuid.UUID
	DocumentTypeID *uuid.UUID
	Status         *Status
	Search         string
	SubmittedFrom  *time.Time
	SubmittedTo    *time.Time
}

// TypeRepository defines document type persistence.
type TypeRepository interface {
	GetByID(ctx context.Context, documentTypeID uuid.UUID) (*Type, error)
	GetBySlug(ctx context.Context, slug string) (*Type, error)
	ListActive(ctx context.Context) ([]*Type, error)
}
