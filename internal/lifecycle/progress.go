package lifecycle

import (
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

// Progress is the delivery rollup of one commitment type for one client.
type Progress struct {
	Type      task.CommitmentType `json:"type"`
	Target    *int                `json:"target,omitempty"`
	Total     int                 `json:"total"`
	Assigned  int                 `json:"assigned"`
	Completed int                 `json:"completed"`
	Verified  int                 `json:"verified"`
}

// CanVerify gates admin verification on completion.
func CanVerify(t *task.Task) error {
	if t.ClientID == nil {
		return ErrNotEligible
	}
	if t.Status != task.StatusCompleted {
		return ErrNotEligible
	}
	return nil
}

// deliveredQuantity falls back to the full quantity for completed tasks that
// predate completed-quantity tracking.
func deliveredQuantity(t *task.Task) int {
	if t.CompletedQuantity != nil {
		return *t.CompletedQuantity
	}
	if t.Status == task.StatusCompleted {
		return *t.Quantity
	}
	return 0
}

// ClientProgress recomputes the rollup from the task set. Types with a
// ceiling are always listed; others only when a linked task uses them.
func ClientProgress(c *client.Client, tasks []*task.Task) []Progress {
	byType := make(map[task.CommitmentType]*Progress)
	for _, kind := range task.CommitmentTypes() {
		if limit, ok := c.SocialMediaCommitment.Ceiling(kind); ok {
			byType[kind] = &Progress{Type: kind, Target: task.Ptr(limit)}
		}
	}

	for _, t := range tasks {
		if !t.LinkedTo(c.UUID) || !t.HasCommitment() {
			continue
		}
		p, ok := byType[*t.CommitmentType]
		if !ok {
			p = &Progress{Type: *t.CommitmentType}
			byType[*t.CommitmentType] = p
		}
		done := deliveredQuantity(t)
		p.Total++
		p.Assigned += *t.Quantity
		p.Completed += done
		if t.IsVerified() && t.Status == task.StatusCompleted {
			p.Verified += done
		}
	}

	out := make([]Progress, 0, len(byType))
	for _, kind := range task.CommitmentTypes() {
		if p, ok := byType[kind]; ok {
			out = append(out, *p)
		}
	}
	return out
}
