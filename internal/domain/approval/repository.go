package approval

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/domain/document"
)

// Repository defines approval step persistence. Steps are owned by their
// document; the compound methods keep cascading document+step transitions
// atomic.
type Repository interface {
	Create(ctx context.Context, step *Step) error
	GetByID(ctx context.Context, stepID uuid.UUID) (*Step, error)
	// ListByDocument returns all steps of a document ordered by sequence.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*Step, error)
	// ListPendingByApprover returns the approver's pending steps ordered by
	// due date (nulls last).
	ListPendingByApprover(ctx context.Context, approverID uuid.UUID, limit, offset int) ([]*Step, error)
	Update(ctx context.Context, step *Step) error

	// SaveDecision persists an already-transitioned step (nil for
	// document-only transitions such as cancel) together with its document,
	// and when skipSiblings is set transitions the document's remaining
	// pending steps to skipped, all in one transaction.
	SaveDecision(ctx context.Context, step *Step, doc *document.Document, skipSiblings bool, now time.Time) error

	// AdvanceDocument runs the advancement check for a pending document
	// against a consistent snapshot of its steps: when no pending steps
	// remain and every non-skipped step is approved, the document becomes
	// approved with a completion timestamp. Returns whether the transition
	// fired. Implementations must serialize this against concurrent
	// advancement of the same document so completion happens exactly once.
	AdvanceDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error)

	// CountPendingByDocument counts the document's pending steps.
	CountPendingByDocument(ctx context.Context, documentID uuid.UUID) (int64, error)
	// CountPendingByApprover counts the approver's open approval tasks.
	CountPendingByApprover(ctx context.Context, approverID uuid.UUID) (int64, error)
	// CountBreachedByApprover counts the approver's pending steps past due.
	CountBreachedByApprover(ctx context.Context, approverID uuid.UUID, now time.Time) (int64, error)
}
