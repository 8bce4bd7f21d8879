package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/document"
)

// Stats is a per-user snapshot of workflow activity.
type Stats struct {
	Documents        map[document.Status]int64 `json:"documents"`
	PendingApprovals int64                     `json:"pendingApprovals"`
	BreachedSLAs     int64                     `json:"breachedSlas"`
}

// Service aggregates per-user workflow counters.
type Service struct {
	documentRepo document.Repository
	approvalRepo approval.Repository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService creates a dashboard service.
func NewService(documentRepo document.Repository, approvalRepo approval.Repository, logger zerolog.Logger) *Service {
	return &Service{
		documentRepo: documentRepo,
		approvalRepo: approvalRepo,
		logger:       logger.With().Str("service", "dashboard").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// UserStats returns the user's document counts by status, their open
// approval tasks, and how many of those are past their SLA due date.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	byStatus, err := s.documentRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	pending, err := s.approvalRepo.CountPendingByApprover(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}
	breached, err := s.approvalRepo.CountBreachedByApprover(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count breached approvals: %w", err)
	}
	return &Stats{
		Documents:        byStatus,
		PendingApprovals: pending,
		BreachedSLAs:     breached,
	}, nil
}
