package feed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedreamteamconsultancy/workstatus/internal/feed"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository/inmemory"
)

func newTask(gemID uuid.UUID, title string) *task.Task {
	return &task.Task{
		UUID:      uuid.New(),
		GemID:     gemID,
		Title:     title,
		Deadline:  time.Now().Add(time.Hour),
		Priority:  task.PriorityMedium,
		Status:    task.StatusPending,
		DriveMode: task.DriveFixed,
	}
}

func TestView_FollowsStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := inmemory.NewTaskStorage()
	gemID := uuid.New()
	require.NoError(t, store.Create(ctx, newTask(gemID, "first")))

	view := feed.NewView(store, repo.TaskFilter{})
	done := make(chan error, 1)
	go func() { done <- view.Run(ctx) }()

	select {
	case <-view.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("view never became ready")
	}
	assert.Len(t, view.Tasks(), 1)

	require.NoError(t, store.Create(ctx, newTask(gemID, "second")))
	assert.Eventually(t, func() bool { return len(view.Tasks()) == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("view did not stop")
	}
}

type failingSource struct{}

func (failingSource) Subscribe(context.Context, repo.TaskFilter) (<-chan repo.Snapshot, error) {
	return nil, errors.New("listen failed")
}

func TestView_SubscribeError(t *testing.T) {
	view := feed.NewView(failingSource{}, repo.TaskFilter{})

	err := view.Run(context.Background())

	assert.ErrorContains(t, err, "listen failed")
	assert.Empty(t, view.Tasks())
}

type closingSource struct{}

func (closingSource) Subscribe(context.Context, repo.TaskFilter) (<-chan repo.Snapshot, error) {
	ch := make(chan repo.Snapshot)
	close(ch)
	return ch, nil
}

func TestView_FeedClosedUnexpectedly(t *testing.T) {
	view := feed.NewView(closingSource{}, repo.TaskFilter{})

	err := view.Run(context.Background())

	assert.Error(t, err)
}
