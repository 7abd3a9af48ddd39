package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const tasksChannel = "tasks_changed"

// Subscribe listens on the tasks_changed channel fed by the table trigger and
// re-reads the filtered list on every notification. The first snapshot is
// sent before any notification arrives. A slow reader only ever sees the
// latest snapshot; the channel closes once ctx is done or the listening
// connection fails.
func (s *TaskStorage) Subscribe(ctx context.Context, filter repo.TaskFilter) (<-chan repo.Snapshot, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+tasksChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen: %w", err)
	}

	out := make(chan repo.Snapshot, 1)

	go func() {
		defer close(out)
		defer func() {
			_, _ = conn.Exec(context.Background(), "UNLISTEN "+tasksChannel)
			conn.Release()
		}()

		publish := func() {
			tasks, err := s.List(ctx, filter)
			if err != nil {
				logger.Warn("Repository: feed refresh failed", zap.Error(err))
				return
			}
			latest(out, tasks)
		}

		publish()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("Repository: task feed listener stopped", err)
				}
				return
			}
			logger.Log(zap.DebugLevel, "Repository: task changed", zap.String("task_id", n.Payload))
			publish()
		}
	}()

	return out, nil
}

func latest(ch chan repo.Snapshot, snap repo.Snapshot) {
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
