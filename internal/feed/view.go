// Package feed keeps an in-process copy of the task set, refreshed from the
// store's change feed.
package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/telemetry"
)

type Subscriber interface {
	Subscribe(ctx context.Context, filter repo.TaskFilter) (<-chan repo.Snapshot, error)
}

// View is the cached task set the scanner sweeps over.
type View struct {
	source Subscriber
	filter repo.TaskFilter

	mu    sync.RWMutex
	tasks repo.Snapshot
	ready chan struct{}
	once  sync.Once
}

func NewView(source Subscriber, filter repo.TaskFilter) *View {
	return &View{
		source: source,
		filter: filter,
		ready:  make(chan struct{}),
	}
}

// Run follows the feed until ctx is done or the store closes it.
func (v *View) Run(ctx context.Context) error {
	snapshots, err := v.source.Subscribe(ctx, v.filter)
	if err != nil {
		return fmt.Errorf("subscribe to task feed: %w", err)
	}
	logger.Info("Feed: subscribed to task changes")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Feed: stopping")
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("task feed closed")
			}
			v.store(snap)
		}
	}
}

func (v *View) store(snap repo.Snapshot) {
	v.mu.Lock()
	v.tasks = snap
	v.mu.Unlock()

	telemetry.FeedSnapshotsTotal.Inc()
	telemetry.FeedTasks.Set(float64(len(snap)))
	logger.Log(zapcore.DebugLevel, "Feed: snapshot received", zap.Int("tasks", len(snap)))

	v.once.Do(func() { close(v.ready) })
}

// Ready is closed once the first snapshot has arrived.
func (v *View) Ready() <-chan struct{} {
	return v.ready
}

// Tasks returns the latest snapshot. Callers must not mutate the tasks.
func (v *View) Tasks() []*task.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tasks
}
