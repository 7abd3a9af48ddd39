package service

import (
	"sync"

	"github.com/google/uuid"
)

// clientLocks serialises commitment writes per client inside one process,
// so a capacity check and the write that depends on it cannot interleave
// with another writer for the same client.
type clientLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*clientLock
}

type clientLock struct {
	mu   sync.Mutex
	refs int
}

func newClientLocks() *clientLocks {
	return &clientLocks{locks: make(map[uuid.UUID]*clientLock)}
}

// lock holds the client's lock until the returned func runs. A nil id
// locks nothing.
func (l *clientLocks) lock(id *uuid.UUID) func() {
	if id == nil {
		return func() {}
	}
	key := *id

	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &clientLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
