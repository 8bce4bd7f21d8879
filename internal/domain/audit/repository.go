package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the audit sink.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, limit, offset int) ([]*Entry, error)
}
