package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func linkedTask(clientID uuid.UUID, kind task.CommitmentType, quantity int) *task.Task {
	t := &task.Task{
		UUID:     uuid.New(),
		GemID:    uuid.New(),
		Status:   task.StatusPending,
		Priority: task.PriorityMedium,
		Deadline: time.Now().Add(24 * time.Hour),
	}
	task.WithCommitment(clientID, kind, quantity)(t)
	return t
}

func TestTransition(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		from        task.Status
		to          task.Status
		expectError bool
	}{
		{name: "pending to ongoing", from: task.StatusPending, to: task.StatusOngoing},
		{name: "ongoing to completed", from: task.StatusOngoing, to: task.StatusCompleted},
		{name: "pending to delayed", from: task.StatusPending, to: task.StatusDelayed},
		{name: "ongoing to delayed", from: task.StatusOngoing, to: task.StatusDelayed},
		{name: "delayed to completed", from: task.StatusDelayed, to: task.StatusCompleted},
		{name: "delayed to ongoing", from: task.StatusDelayed, to: task.StatusOngoing},
		{name: "completed cannot reopen", from: task.StatusCompleted, to: task.StatusOngoing, expectError: true},
		{name: "completed cannot be delayed", from: task.StatusCompleted, to: task.StatusDelayed, expectError: true},
		{name: "delayed cannot be delayed again", from: task.StatusDelayed, to: task.StatusDelayed, expectError: true},
		{name: "unknown status", from: task.StatusPending, to: task.Status("archived"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &task.Task{UUID: uuid.New(), Status: tt.from, Priority: task.PriorityLow}
			patch, err := lifecycle.Transition(tk, tt.to, now, false)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, lifecycle.ErrInvalidTransition))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, patch.Status)
			assert.Equal(t, tt.to, *patch.Status)
			assert.Equal(t, now, patch.UpdatedAt)
		})
	}
}

func TestTransition_DelayedSideEffects(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tk := &task.Task{UUID: uuid.New(), Status: task.StatusOngoing, Priority: task.PriorityLow}

	patch, err := lifecycle.Transition(tk, task.StatusDelayed, now, true)
	require.NoError(t, err)

	patch.Apply(tk)
	assert.Equal(t, task.StatusDelayed, tk.Status)
	assert.Equal(t, task.PriorityUrgent, tk.Priority)
	require.NotNil(t, tk.DelayedAt)
	assert.Equal(t, now, *tk.DelayedAt)
	assert.True(t, tk.AutoDelayed)
	assert.NoError(t, lifecycle.CheckInvariants(tk))
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	assert.True(t, lifecycle.IsOverdue(&task.Task{Status: task.StatusPending, Deadline: now.Add(-time.Hour)}, now))
	assert.True(t, lifecycle.IsOverdue(&task.Task{Status: task.StatusOngoing, Deadline: now.Add(-time.Second)}, now))
	assert.False(t, lifecycle.IsOverdue(&task.Task{Status: task.StatusPending, Deadline: now.Add(time.Hour)}, now))
	assert.False(t, lifecycle.IsOverdue(&task.Task{Status: task.StatusCompleted, Deadline: now.Add(-time.Hour)}, now))
	assert.False(t, lifecycle.IsOverdue(&task.Task{Status: task.StatusDelayed, Deadline: now.Add(-time.Hour)}, now))
}

func TestCategorize(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, kolkata)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		status   task.Status
		deadline time.Time
		want     task.Category
	}{
		{name: "yesterday ongoing stays present", status: task.StatusOngoing, deadline: yesterday, want: task.CategoryPresent},
		{name: "yesterday delayed stays present", status: task.StatusDelayed, deadline: yesterday, want: task.CategoryPresent},
		{name: "yesterday completed is past", status: task.StatusCompleted, deadline: yesterday, want: task.CategoryPast},
		{name: "earlier today is present", status: task.StatusPending, deadline: now.Add(-10 * time.Hour), want: task.CategoryPresent},
		{name: "later today is present", status: task.StatusCompleted, deadline: now.Add(8 * time.Hour), want: task.CategoryPresent},
		{name: "tomorrow is future", status: task.StatusPending, deadline: tomorrow, want: task.CategoryFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &task.Task{Status: tt.status, Deadline: tt.deadline}
			first := lifecycle.Categorize(tk, now, kolkata)
			second := lifecycle.Categorize(tk, now, kolkata)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second)
		})
	}
}

func TestCategorize_UsesCalendarDayInLocation(t *testing.T) {
	// 20:00 UTC on the 9th is already the 10th in IST.
	deadline := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, kolkata)
	tk := &task.Task{Status: task.StatusCompleted, Deadline: deadline}

	assert.Equal(t, task.CategoryPresent, lifecycle.Categorize(tk, now, kolkata))
	assert.Equal(t, task.CategoryPast, lifecycle.Categorize(tk, now, time.UTC))
}

func TestGroup(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	late := &task.Task{UUID: uuid.New(), Status: task.StatusPending, Deadline: now.Add(5 * time.Hour)}
	early := &task.Task{UUID: uuid.New(), Status: task.StatusPending, Deadline: now.Add(-5 * time.Hour)}
	future := &task.Task{UUID: uuid.New(), Status: task.StatusPending, Deadline: now.AddDate(0, 0, 3)}
	past := &task.Task{UUID: uuid.New(), Status: task.StatusCompleted, Deadline: now.AddDate(0, 0, -3)}

	b := lifecycle.Group([]*task.Task{late, future, past, early}, now, time.UTC)

	require.Len(t, b.Present, 2)
	assert.Equal(t, early.UUID, b.Present[0].UUID)
	assert.Equal(t, late.UUID, b.Present[1].UUID)
	assert.Equal(t, []*task.Task{future}, b.Future)
	assert.Equal(t, []*task.Task{past}, b.Past)
}

func TestRemainingCapacity(t *testing.T) {
	c := &client.Client{
		UUID:                  uuid.New(),
		SocialMediaCommitment: &client.SocialMediaCommitment{RealVideos: 5, Posters: 10},
	}
	existing := linkedTask(c.UUID, task.CommitmentRealVideo, 3)
	otherClient := linkedTask(uuid.New(), task.CommitmentRealVideo, 4)
	poster := linkedTask(c.UUID, task.CommitmentPoster, 6)
	tasks := []*task.Task{existing, otherClient, poster}

	t.Run("new task sees remaining of two", func(t *testing.T) {
		capacity := lifecycle.RemainingCapacity(c, task.CommitmentRealVideo, tasks, uuid.Nil)
		assert.Equal(t, 2, capacity.Remaining())

		err := lifecycle.ValidateQuantity(capacity, 3)
		var qerr *lifecycle.QuantityError
		require.ErrorAs(t, err, &qerr)
		assert.Equal(t, 2, qerr.Max)
		assert.NoError(t, lifecycle.ValidateQuantity(capacity, 2))
	})

	t.Run("editing excludes the task itself", func(t *testing.T) {
		capacity := lifecycle.RemainingCapacity(c, task.CommitmentRealVideo, tasks, existing.UUID)
		assert.Equal(t, 5, capacity.Remaining())
		assert.NoError(t, lifecycle.ValidateQuantity(capacity, 5))
	})

	t.Run("other is unlimited", func(t *testing.T) {
		capacity := lifecycle.RemainingCapacity(c, task.CommitmentOther, tasks, uuid.Nil)
		assert.True(t, capacity.Unlimited)
		assert.NoError(t, lifecycle.ValidateQuantity(capacity, 1000))
		assert.Error(t, lifecycle.ValidateQuantity(capacity, 0))
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		capacity := lifecycle.RemainingCapacity(c, task.CommitmentPoster, tasks, uuid.Nil)
		assert.Equal(t, 4, capacity.Remaining())
		assert.Error(t, lifecycle.ValidateQuantity(capacity, 0))
	})

	t.Run("exhausted ceiling", func(t *testing.T) {
		full := linkedTask(c.UUID, task.CommitmentRealVideo, 2)
		capacity := lifecycle.RemainingCapacity(c, task.CommitmentRealVideo, append(tasks, full), uuid.Nil)
		assert.Equal(t, 0, capacity.Remaining())
		assert.Error(t, lifecycle.ValidateQuantity(capacity, 1))
	})
}

func TestValidateCompletedQuantity(t *testing.T) {
	tk := linkedTask(uuid.New(), task.CommitmentPoster, 4)

	assert.NoError(t, lifecycle.ValidateCompletedQuantity(tk, 0))
	assert.NoError(t, lifecycle.ValidateCompletedQuantity(tk, 4))
	assert.Error(t, lifecycle.ValidateCompletedQuantity(tk, 5))
	assert.Error(t, lifecycle.ValidateCompletedQuantity(tk, -1))
	assert.Error(t, lifecycle.ValidateCompletedQuantity(&task.Task{UUID: uuid.New()}, 0))
}

func TestClientProgress(t *testing.T) {
	c := &client.Client{
		UUID:                  uuid.New(),
		SocialMediaCommitment: &client.SocialMediaCommitment{RealVideos: 10, Posters: 8},
	}

	verified := linkedTask(c.UUID, task.CommitmentRealVideo, 4)
	verified.Status = task.StatusCompleted
	verified.CompletedQuantity = task.Ptr(4)
	verified.AdminVerified = task.Ptr(true)

	partial := linkedTask(c.UUID, task.CommitmentRealVideo, 4)
	partial.Status = task.StatusOngoing
	partial.CompletedQuantity = task.Ptr(2)

	legacy := linkedTask(c.UUID, task.CommitmentPoster, 3)
	legacy.Status = task.StatusCompleted
	legacy.CompletedQuantity = nil

	other := linkedTask(c.UUID, task.CommitmentOther, 7)
	unrelated := linkedTask(uuid.New(), task.CommitmentRealVideo, 9)

	progress := lifecycle.ClientProgress(c, []*task.Task{verified, partial, legacy, other, unrelated})
	// Every ceiling type is listed even when its target is zero.
	require.Len(t, progress, 5)

	videos := progress[0]
	assert.Equal(t, task.CommitmentRealVideo, videos.Type)
	assert.Equal(t, 10, *videos.Target)
	assert.Equal(t, 2, videos.Total)
	assert.Equal(t, 8, videos.Assigned)
	assert.Equal(t, 6, videos.Completed)
	assert.Equal(t, 4, videos.Verified)

	assert.Equal(t, task.CommitmentAIVideo, progress[1].Type)
	assert.Equal(t, 0, *progress[1].Target)

	poster := progress[2]
	assert.Equal(t, task.CommitmentPoster, poster.Type)
	assert.Equal(t, 3, poster.Completed)
	assert.Equal(t, 0, poster.Verified)

	assert.Equal(t, task.CommitmentOther, progress[4].Type)
	assert.Nil(t, progress[4].Target)
	assert.Equal(t, 7, progress[4].Assigned)
}

func TestCanVerify(t *testing.T) {
	tk := linkedTask(uuid.New(), task.CommitmentPoster, 2)
	assert.ErrorIs(t, lifecycle.CanVerify(tk), lifecycle.ErrNotEligible)

	tk.Status = task.StatusCompleted
	assert.NoError(t, lifecycle.CanVerify(tk))

	assert.ErrorIs(t, lifecycle.CanVerify(&task.Task{Status: task.StatusCompleted}), lifecycle.ErrNotEligible)
}

func TestSummarize(t *testing.T) {
	a := &client.Client{
		UUID:             uuid.New(),
		TotalProjectCost: 10000,
		CompanySplit: client.CompanySplit{
			DigitalMarketingCosts: []client.DigitalMarketingCost{{Amount: 1000}, {Amount: 500}},
			TravellingCharges:     300,
		},
	}
	b := &client.Client{UUID: uuid.New(), TotalProjectCost: 4000}

	fin := lifecycle.Financials(a)
	assert.InDelta(t, 5000, fin.WorkPool, 0.001)
	assert.InDelta(t, 5000-1500-300, fin.NetProfit, 0.001)

	summary := lifecycle.Summarize(
		[]*client.Client{a, b},
		[]*ledger.Transaction{
			{Type: ledger.TypeIncome, Amount: 700},
			{Type: ledger.TypeExpense, Amount: 200},
		},
	)
	assert.InDelta(t, 14000, summary.TotalProjectCosts, 0.001)
	assert.InDelta(t, 14700, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 7000, summary.TotalCompanySplit, 0.001)
	assert.InDelta(t, 7000-1500-300-200, summary.NetProfit, 0.001)
}
