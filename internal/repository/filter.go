package repository

import (
	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
)

// TaskFilter narrows task listings and feeds. Nil fields match everything.
type TaskFilter struct {
	GemID    *uuid.UUID
	ClientID *uuid.UUID
}

func (f TaskFilter) Match(t *task.Task) bool {
	if f.GemID != nil && t.GemID != *f.GemID {
		return false
	}
	if f.ClientID != nil && !t.LinkedTo(*f.ClientID) {
		return false
	}
	return true
}

// Snapshot is one full view of the tasks matching a subscription filter.
type Snapshot []*task.Task
