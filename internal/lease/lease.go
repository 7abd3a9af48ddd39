// Package lease keeps the scanner from delaying the same task twice while
// a write is in flight or has just landed.
package lease

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lease marks task ids as taken. Acquire reports false when the id is
// already leased. Release keeps the lease for another after, or drops it
// when after <= 0.
type Lease interface {
	Acquire(ctx context.Context, id uuid.UUID) (bool, error)
	Release(ctx context.Context, id uuid.UUID, after time.Duration) error
}

// DefaultInFlightTTL bounds a lease whose holder never released it.
const DefaultInFlightTTL = time.Minute

// Memory is a process-local lease set of task id -> expiry.
type Memory struct {
	mu       sync.Mutex
	expiry   map[uuid.UUID]time.Time
	inFlight time.Duration
	now      func() time.Time
}

func NewMemory(inFlight time.Duration, now func() time.Time) *Memory {
	if inFlight <= 0 {
		inFlight = DefaultInFlightTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		expiry:   make(map[uuid.UUID]time.Time),
		inFlight: inFlight,
		now:      now,
	}
}

func (m *Memory) Acquire(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if until, ok := m.expiry[id]; ok && now.Before(until) {
		return false, nil
	}
	m.expiry[id] = now.Add(m.inFlight)
	return true, nil
}

func (m *Memory) Release(_ context.Context, id uuid.UUID, after time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if after <= 0 {
		delete(m.expiry, id)
		return nil
	}
	m.expiry[id] = m.now().Add(after)
	return nil
}

// Prune drops expired entries so the set does not grow with every task
// ever leased.
func (m *Memory) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	pruned := 0
	for id, until := range m.expiry {
		if !now.Before(until) {
			delete(m.expiry, id)
			pruned++
		}
	}
	return pruned
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.expiry)
}
