package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docflow/docflow/internal/domain/audit"
)

// Service records workflow transition facts. The engine reports each
// transition (action, actor, before/after state) here without depending on
// the sink's storage format.
type Service struct {
	repo   audit.Repository
	logger zerolog.Logger
}

// NewService creates an audit service.
func NewService(repo audit.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

// Log records an entry asynchronously. Transitions never block on, or fail
// because of, the audit sink.
func (s *Service) Log(ctx context.Context, entry *audit.Entry) {
	go func() {
		if err := s.LogSync(context.Background(), entry); err != nil {
			s.logger.Error().Err(err).
				Str("action", entry.Action).
				Str("entityType", string(entry.EntityType)).
				Str("entityId", entry.EntityID.String()).
				Msg("failed to record audit entry")
		}
	}()
}

// LogSync records an entry synchronously.
func (s *Service) LogSync(ctx context.Context, entry *audit.Entry) error {
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}
	s.logger.Debug().
		Str("auditId", entry.AuditID.String()).
		Str("action", entry.Action).
		Str("entityType", string(entry.EntityType)).
		Str("entityId", entry.EntityID.String()).
		Msg("audit entry recorded")
	return nil
}

// EntityHistory returns the recorded entries for one entity, newest first.
func (s *Service) EntityHistory(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	return s.repo.ListByEntity(ctx, entityType, entityID, limit, offset)
}
