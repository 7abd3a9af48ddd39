// Package lifecycle holds the pure task rules: status transitions,
// categorisation, commitment capacity and progress rollups. Nothing here
// touches storage.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEligible       = errors.New("task is not eligible")
)

// TransitionError describes a rejected status change.
type TransitionError struct {
	From task.Status
	To   task.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move task from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// completed is terminal: there is no reopen path.
var transitions = map[task.Status][]task.Status{
	task.StatusPending:   {task.StatusOngoing, task.StatusCompleted, task.StatusDelayed},
	task.StatusOngoing:   {task.StatusPending, task.StatusCompleted, task.StatusDelayed},
	task.StatusDelayed:   {task.StatusOngoing, task.StatusCompleted},
	task.StatusCompleted: {},
}

func CanTransition(from, to task.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the scanner should delay t at now.
func IsOverdue(t *task.Task, now time.Time) bool {
	if t.Status == task.StatusCompleted || t.Status == task.StatusDelayed {
		return false
	}
	return now.After(t.Deadline)
}

// Transition builds the single patch that moves t to the target status. The
// delayed side effects travel in the same patch as the status so the store
// never holds a delayed task that is not urgent.
func Transition(t *task.Task, to task.Status, now time.Time, auto bool) (task.Patch, error) {
	if !to.Valid() {
		return task.Patch{}, &TransitionError{From: t.Status, To: to}
	}
	if !CanTransition(t.Status, to) {
		return task.Patch{}, &TransitionError{From: t.Status, To: to}
	}

	patch := task.Patch{
		Status:    task.Ptr(to),
		UpdatedAt: now,
	}
	if to == task.StatusDelayed {
		patch.Priority = task.Ptr(task.PriorityUrgent)
		patch.DelayedAt = task.Ptr(now)
		patch.AutoDelayed = task.Ptr(auto)
	}
	return patch, nil
}

// CheckInvariants validates the record-level rules of a task.
func CheckInvariants(t *task.Task) error {
	if (t.Quantity == nil) != (t.CommitmentType == nil) {
		return errors.New("quantity and commitment type must be set together")
	}
	if t.Quantity != nil && t.CompletedQuantity != nil && *t.CompletedQuantity > *t.Quantity {
		return errors.New("completed quantity exceeds quantity")
	}
	if t.ClientID != nil && t.AdminVerified == nil {
		return errors.New("client-linked task must carry a verification flag")
	}
	if t.Status == task.StatusDelayed && (t.Priority != task.PriorityUrgent || t.DelayedAt == nil) {
		return errors.New("delayed task must be urgent with a delay timestamp")
	}
	return nil
}
