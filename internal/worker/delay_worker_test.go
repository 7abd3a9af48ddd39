package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thedreamteamconsultancy/workstatus/internal/feed"
	"github.com/thedreamteamconsultancy/workstatus/internal/lease"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository/inmemory"
	"github.com/thedreamteamconsultancy/workstatus/internal/service"
	"github.com/thedreamteamconsultancy/workstatus/internal/worker"
)

var sweepNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type staticSource struct {
	mu    sync.Mutex
	tasks []*task.Task
}

func (s *staticSource) Tasks() []*task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks
}

type MockDelayer struct {
	mock.Mock
}

func (m *MockDelayer) DelayOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func overdueTask(status task.Status) *task.Task {
	return &task.Task{
		UUID:     uuid.New(),
		GemID:    uuid.New(),
		Title:    "Upload reel",
		Deadline: sweepNow.Add(-time.Minute),
		Priority: task.PriorityMedium,
		Status:   status,
	}
}

func TestDelayWorker_Sweep(t *testing.T) {
	overdue := overdueTask(task.StatusOngoing)
	onTime := overdueTask(task.StatusPending)
	onTime.Deadline = sweepNow.Add(time.Hour)
	finished := overdueTask(task.StatusCompleted)
	alreadyDelayed := overdueTask(task.StatusDelayed)

	tests := []struct {
		name          string
		tasks         []*task.Task
		setupMock     func(*MockDelayer)
		expectDelayed int
	}{
		{
			name:  "delays only overdue open tasks",
			tasks: []*task.Task{overdue, onTime, finished, alreadyDelayed},
			setupMock: func(m *MockDelayer) {
				m.On("DelayOverdue", mock.Anything, overdue.UUID).Return(true, nil).Once()
			},
			expectDelayed: 1,
		},
		{
			name:  "re-check finds the task already moved",
			tasks: []*task.Task{overdue},
			setupMock: func(m *MockDelayer) {
				m.On("DelayOverdue", mock.Anything, overdue.UUID).Return(false, nil).Once()
			},
			expectDelayed: 0,
		},
		{
			name:          "nothing to do",
			tasks:         []*task.Task{onTime, finished},
			setupMock:     func(m *MockDelayer) {},
			expectDelayed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delayer := new(MockDelayer)
			tt.setupMock(delayer)
			w := worker.NewDelayWorker(&staticSource{tasks: tt.tasks}, delayer,
				lease.NewMemory(time.Minute, func() time.Time { return sweepNow }),
				worker.WithClock(func() time.Time { return sweepNow }))

			assert.Equal(t, tt.expectDelayed, w.Sweep(context.Background()))
			delayer.AssertExpectations(t)
		})
	}
}

func TestDelayWorker_AtMostOncePerEpisode(t *testing.T) {
	clock := &fakeClock{now: sweepNow}
	stale := overdueTask(task.StatusPending)
	delayer := new(MockDelayer)
	delayer.On("DelayOverdue", mock.Anything, stale.UUID).Return(true, nil).Once()

	// The view keeps showing the pre-write task, as a lagging feed would.
	w := worker.NewDelayWorker(&staticSource{tasks: []*task.Task{stale}}, delayer,
		lease.NewMemory(time.Minute, clock.Now),
		worker.WithClock(clock.Now),
		worker.WithCooldown(5*time.Second))

	for i := 0; i < 4; i++ {
		w.Sweep(context.Background())
		clock.Advance(time.Second)
	}

	delayer.AssertNumberOfCalls(t, "DelayOverdue", 1)
}

func TestDelayWorker_FailedWriteIsRetried(t *testing.T) {
	clock := &fakeClock{now: sweepNow}
	overdue := overdueTask(task.StatusOngoing)
	delayer := new(MockDelayer)
	delayer.On("DelayOverdue", mock.Anything, overdue.UUID).Return(false, errors.New("store unavailable")).Once()
	delayer.On("DelayOverdue", mock.Anything, overdue.UUID).Return(true, nil).Once()

	w := worker.NewDelayWorker(&staticSource{tasks: []*task.Task{overdue}}, delayer,
		lease.NewMemory(time.Minute, clock.Now),
		worker.WithClock(clock.Now))

	assert.Equal(t, 0, w.Sweep(context.Background()))
	assert.Equal(t, 1, w.Sweep(context.Background()))
	delayer.AssertExpectations(t)
}

func TestDelayWorker_FailureDoesNotStopSweep(t *testing.T) {
	first := overdueTask(task.StatusPending)
	second := overdueTask(task.StatusOngoing)
	delayer := new(MockDelayer)
	delayer.On("DelayOverdue", mock.Anything, first.UUID).Return(false, errors.New("conflict"))
	delayer.On("DelayOverdue", mock.Anything, second.UUID).Return(true, nil)

	w := worker.NewDelayWorker(&staticSource{tasks: []*task.Task{first, second}}, delayer,
		lease.NewMemory(time.Minute, nil),
		worker.WithClock(func() time.Time { return sweepNow }))

	assert.Equal(t, 1, w.Sweep(context.Background()))
	delayer.AssertExpectations(t)
}

func TestDelayWorker_StopsOnCancel(t *testing.T) {
	w := worker.NewDelayWorker(&staticSource{}, new(MockDelayer), lease.NewMemory(0, nil),
		worker.WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestDelayWorker_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := inmemory.NewTaskStorage()
	gems := inmemory.NewGemStorage()
	clients := inmemory.NewClientStorage()
	owner := &gem.Gem{UUID: uuid.New(), Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, gems.Create(ctx, owner))

	clock := &fakeClock{now: sweepNow.Add(-2 * time.Hour)}
	svc := service.NewTaskService(tasks, clients, gems, service.WithClock(clock.Now), service.WithLocation(time.UTC))
	created, err := svc.CreateTask(ctx, owner.UUID, "Reel edit", sweepNow.Add(-time.Hour))
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	view := feed.NewView(tasks, repo.TaskFilter{})
	go func() { _ = view.Run(ctx) }()
	<-view.Ready()

	w := worker.NewDelayWorker(view, svc, lease.NewMemory(time.Minute, clock.Now), worker.WithClock(clock.Now))
	assert.Equal(t, 1, w.Sweep(ctx))

	got, err := svc.GetTask(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDelayed, got.Status)
	assert.Equal(t, task.PriorityUrgent, got.Priority)
	assert.True(t, got.AutoDelayed)
	require.NotNil(t, got.DelayedAt)
	assert.Equal(t, sweepNow, *got.DelayedAt)

	assert.Eventually(t, func() bool {
		for _, v := range view.Tasks() {
			if v.UUID == created.UUID {
				return v.Status == task.StatusDelayed
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, w.Sweep(ctx))
}
