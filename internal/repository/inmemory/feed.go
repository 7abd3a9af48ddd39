package inmemory

import (
	"context"

	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type subscriber struct {
	filter repo.TaskFilter
	ch     chan repo.Snapshot
}

// Subscribe delivers the current matching tasks immediately and a fresh
// snapshot after every change. A slow reader only ever sees the latest
// snapshot. The channel is closed once ctx is done.
func (s *TaskStorage) Subscribe(ctx context.Context, filter repo.TaskFilter) (<-chan repo.Snapshot, error) {
	sub := &subscriber{
		filter: filter,
		ch:     make(chan repo.Snapshot, 1),
	}

	s.mtx.Lock()
	s.subscribers[sub] = struct{}{}
	offer(sub.ch, s.listLocked(filter))
	s.mtx.Unlock()

	go func() {
		<-ctx.Done()
		s.mtx.Lock()
		delete(s.subscribers, sub)
		close(sub.ch)
		s.mtx.Unlock()
	}()

	return sub.ch, nil
}

func (s *TaskStorage) publishLocked() {
	for sub := range s.subscribers {
		offer(sub.ch, s.listLocked(sub.filter))
	}
}

// offer replaces any unread snapshot with the newer one. Callers hold the
// store lock, so there is a single sender per channel.
func offer(ch chan repo.Snapshot, snap repo.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
