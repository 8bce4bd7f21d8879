package approval

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the status of a runtime approval step. Every status but
// Pending is terminal for the step.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusReturned Status = "RETURNED"
	StatusSkipped  Status = "SKIPPED"
)

var ErrInvalidTransition = errors.New("invalid approval step transition")

// Step is a materialized approval task bound to a resolved approver, owned by
// a document.
type Step struct {
	ID                int64      `json:"id"`
	StepID            uuid.UUID  `json:"stepId"`
	DocumentID        uuid.UUID  `json:"documentId"`
	TemplateStepID    *uuid.UUID `json:"templateStepId,omitempty"`
	Sequence          int        `json:"sequence"`
	StepName          string     `json:"stepName"`
	ApproverID        uuid.UUID  `json:"approverId"`
	DelegatedFromID   *uuid.UUID `json:"delegatedFromId,omitempty"`
	DelegationStartAt *time.Time `json:"delegationStartAt,omitempty"`
	DelegationEndAt   *time.Time `json:"delegationEndAt,omitempty"`
	Status            Status     `json:"status"`
	ActionTakenAt     *time.Time `json:"actionTakenAt,omitempty"`
	ActionTakenBy     *uuid.UUID `json:"actionTakenBy,omitempty"`
	Comment           *string    `json:"comment,omitempty"`
	SLAHours          *int       `json:"slaHours,omitempty"`
	DueAt             *time.Time `json:"dueAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (s *Step) IsPending() bool {
	return s.Status == StatusPending
}

// IsTerminal reports whether the step already carries a final outcome.
func (s *Step) IsTerminal() bool {
	switch s.Status {
	case StatusApproved, StatusRejected, StatusReturned, StatusSkipped:
		return true
	default:
		return false
	}
}

// resolve applies a terminal decision to a pending step.
func (s *Step) resolve(target Status, actor uuid.UUID, comment *string, now time.Time) error {
	if !s.IsPending() {
		return ErrInvalidTransition
	}
	s.Status = target
	s.ActionTakenAt = &now
	s.ActionTakenBy = &actor
	s.Comment = comment
	return nil
}

// Approve marks the step approved by the actor.
func (s *Step) Approve(actor uuid.UUID, comment *string, now time.Time) error {
	return s.resolve(StatusApproved, actor, comment, now)
}

// Reject marks the step rejected by the actor.
func (s *Step) Reject(actor uuid.UUID, comment *string, now time.Time) error {
	return s.resolve(StatusRejected, actor, comment, now)
}

// Return marks the step returned by the actor.
func (s *Step) Return(actor uuid.UUID, comment *string, now time.Time) error {
	return s.resolve(StatusReturned, actor, comment, now)
}

// Delegate reassigns the step's approver. The step stays pending; only the
// approver identity and delegation bookkeeping change. The validity window is
// informational and not checked when the new approver acts.
func (s *Step) Delegate(from, to uuid.UUID, endAt *time.Time, now time.Time, defaultWindow time.Duration) error {
	if !s.IsPending() {
		return ErrInvalidTransition
	}
	end := now.Add(defaultWindow)
	if endAt != nil {
		end = *endAt
	}
	s.DelegatedFromID = &from
	s.ApproverID = to
	s.DelegationStartAt = &now
	s.DelegationEndAt = &end
	return nil
}

// IsDelegated reports whether the step was delegated away from its original
// approver.
func (s *Step) IsDelegated() bool {
	return s.DelegatedFromID != nil
}

// IsSLABreached reports whether the step blew past its due timestamp. Pure:
// steps without a due date never breach, and terminal steps never breach
// regardless of due date.
func (s *Step) IsSLABreached(now time.Time) bool {
	if s.DueAt == nil || s.IsTerminal() {
		return false
	}
	return now.After(*s.DueAt)
}
