package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID

	subscribers map[*subscriber]struct{}
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage:     make(map[uuid.UUID]*task.Task),
		mtx:         &sync.RWMutex{},
		ids:         []uuid.UUID{},
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory task store is healthy")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}
	if taskToCreate.UpdatedAt.IsZero() {
		taskToCreate.UpdatedAt = taskToCreate.CreatedAt
	}
	taskToCreate.Version = 1

	s.storage[taskToCreate.UUID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.UUID)
	s.publishLocked()
	return nil
}

// Update applies the patch to the stored record. A non-zero
// patch.ExpectedVersion must match the stored version.
func (s *TaskStorage) Update(ctx context.Context, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if patch.ExpectedVersion != 0 && patch.ExpectedVersion != existing.Version {
		logger.Warn("Repository: version conflict on task update",
			zap.String("task_id", id.String()),
			zap.Int("expected_version", patch.ExpectedVersion),
			zap.Int("actual_version", existing.Version))
		return nil, repo.ErrVersionConflict
	}

	updated := existing.Clone()
	patch.Apply(updated)
	if patch.UpdatedAt.IsZero() {
		updated.UpdatedAt = time.Now()
	}
	updated.Version++

	s.storage[id] = updated
	s.publishLocked()
	return updated.Clone(), nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// List returns matching tasks in insertion order.
func (s *TaskStorage) List(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.listLocked(filter), nil
}

func (s *TaskStorage) listLocked(filter repo.TaskFilter) []*task.Task {
	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if !filter.Match(t) {
			continue
		}
		res = append(res, t.Clone())
	}
	return res
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	s.removeLocked(id)
	s.publishLocked()
	return nil
}

// DeleteByGem removes every task owned by the gem and reports how many went.
func (s *TaskStorage) DeleteByGem(ctx context.Context, gemID uuid.UUID) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var doomed []uuid.UUID
	for _, id := range s.ids {
		if s.storage[id].GemID == gemID {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		s.removeLocked(id)
	}
	if len(doomed) > 0 {
		s.publishLocked()
	}
	return len(doomed), nil
}

func (s *TaskStorage) removeLocked(id uuid.UUID) {
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
}
