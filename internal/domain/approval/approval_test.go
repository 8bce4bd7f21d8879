package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_Resolve(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	actor := uuid.New()
	comment := "looks good"

	t.Run("approve records actor and timestamp", func(t *testing.T) {
		s := &Step{Status: StatusPending}
		require.NoError(t, s.Approve(actor, &comment, now))
		assert.Equal(t, StatusApproved, s.Status)
		require.NotNil(t, s.ActionTakenAt)
		assert.Equal(t, now, *s.ActionTakenAt)
		require.NotNil(t, s.ActionTakenBy)
		assert.Equal(t, actor, *s.ActionTakenBy)
		require.NotNil(t, s.Comment)
		assert.Equal(t, comment, *s.Comment)
		assert.True(t, s.IsTerminal())
	})

	t.Run("reject and return are terminal", func(t *testing.T) {
		s := &Step{Status: StatusPending}
		require.NoError(t, s.Reject(actor, &comment, now))
		assert.Equal(t, StatusRejected, s.Status)
		assert.True(t, s.IsTerminal())

		s = &Step{Status: StatusPending}
		require.NoError(t, s.Return(actor, &comment, now))
		assert.Equal(t, StatusReturned, s.Status)
	})

	t.Run("resolved step cannot be resolved again", func(t *testing.T) {
		for _, status := range []Status{StatusApproved, StatusRejected, StatusReturned, StatusSkipped} {
			s := &Step{Status: status}
			assert.ErrorIs(t, s.Approve(actor, nil, now), ErrInvalidTransition)
			assert.ErrorIs(t, s.Reject(actor, nil, now), ErrInvalidTransition)
		}
	})
}

func TestStep_Delegate(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour
	from := uuid.New()
	to := uuid.New()

	t.Run("default window applies when no end is given", func(t *testing.T) {
		s := &Step{Status: StatusPending, ApproverID: from}
		require.NoError(t, s.Delegate(from, to, nil, now, window))
		assert.Equal(t, to, s.ApproverID)
		require.NotNil(t, s.DelegatedFromID)
		assert.Equal(t, from, *s.DelegatedFromID)
		require.NotNil(t, s.DelegationStartAt)
		assert.Equal(t, now, *s.DelegationStartAt)
		require.NotNil(t, s.DelegationEndAt)
		assert.Equal(t, now.Add(window), *s.DelegationEndAt)
		assert.True(t, s.IsDelegated())
		assert.True(t, s.IsPending())
	})

	t.Run("explicit end overrides the window", func(t *testing.T) {
		end := now.Add(48 * time.Hour)
		s := &Step{Status: StatusPending, ApproverID: from}
		require.NoError(t, s.Delegate(from, to, &end, now, window))
		require.NotNil(t, s.DelegationEndAt)
		assert.Equal(t, end, *s.DelegationEndAt)
	})

	t.Run("resolved step cannot be delegated", func(t *testing.T) {
		s := &Step{Status: StatusApproved, ApproverID: from}
		assert.ErrorIs(t, s.Delegate(from, to, nil, now, window), ErrInvalidTransition)
	})
}

func TestStep_IsSLABreached(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		step     Step
		breached bool
	}{
		{name: "pending past due", step: Step{Status: StatusPending, DueAt: &past}, breached: true},
		{name: "pending before due", step: Step{Status: StatusPending, DueAt: &future}, breached: false},
		{name: "pending without a due date", step: Step{Status: StatusPending}, breached: false},
		{name: "approved past due", step: Step{Status: StatusApproved, DueAt: &past}, breached: false},
		{name: "skipped past due", step: Step{Status: StatusSkipped, DueAt: &past}, breached: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.breached, tt.step.IsSLABreached(now))
		})
	}
}
