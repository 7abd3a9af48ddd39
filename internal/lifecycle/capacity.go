package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

// Capacity is what is left of a client's ceiling for one commitment type.
type Capacity struct {
	Type      task.CommitmentType `json:"type"`
	Limit     int                 `json:"limit"`
	Used      int                 `json:"used"`
	Unlimited bool                `json:"unlimited"`
}

func (c Capacity) Remaining() int {
	if c.Unlimited {
		return -1
	}
	if c.Used >= c.Limit {
		return 0
	}
	return c.Limit - c.Used
}

// QuantityError is returned when a requested quantity is out of range.
type QuantityError struct {
	Field     string
	Requested int
	Min       int
	Max       int
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s %d is outside [%d, %d]", e.Field, e.Requested, e.Min, e.Max)
}

// RemainingCapacity sums the quantities of every other task linked to the
// client under the same commitment type. excludeID is the task being edited,
// uuid.Nil when creating.
func RemainingCapacity(c *client.Client, kind task.CommitmentType, tasks []*task.Task, excludeID uuid.UUID) Capacity {
	limit, ok := c.SocialMediaCommitment.Ceiling(kind)
	if kind == task.CommitmentOther || !ok {
		return Capacity{Type: kind, Unlimited: true}
	}

	used := 0
	for _, t := range tasks {
		if t.UUID == excludeID || !t.LinkedTo(c.UUID) || !t.HasCommitment() {
			continue
		}
		if *t.CommitmentType != kind {
			continue
		}
		used += *t.Quantity
	}
	return Capacity{Type: kind, Limit: limit, Used: used}
}

// ValidateQuantity rejects requests outside [1, remaining]. Over-commitment
// is never clamped here.
func ValidateQuantity(capacity Capacity, requested int) error {
	if requested < 1 {
		return &QuantityError{Field: "quantity", Requested: requested, Min: 1, Max: capacity.Remaining()}
	}
	if capacity.Unlimited {
		return nil
	}
	if requested > capacity.Remaining() {
		return &QuantityError{Field: "quantity", Requested: requested, Min: 1, Max: capacity.Remaining()}
	}
	return nil
}

// ValidateCompletedQuantity accepts values in [0, quantity].
func ValidateCompletedQuantity(t *task.Task, completed int) error {
	if !t.HasCommitment() {
		return fmt.Errorf("task %s has no committed quantity", t.UUID)
	}
	if completed < 0 || completed > *t.Quantity {
		return &QuantityError{Field: "completed_quantity", Requested: completed, Min: 0, Max: *t.Quantity}
	}
	return nil
}
