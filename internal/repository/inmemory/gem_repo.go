package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type GemStorage struct {
	storage map[uuid.UUID]*gem.Gem
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewGemStorage() *GemStorage {
	return &GemStorage{
		storage: make(map[uuid.UUID]*gem.Gem),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *GemStorage) Create(ctx context.Context, g *gem.Gem) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	s.storage[g.UUID] = g.Clone()
	s.ids = append(s.ids, g.UUID)
	return nil
}

func (s *GemStorage) Update(ctx context.Context, g *gem.Gem) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[g.UUID]; !ok {
		return repo.ErrNotFound
	}
	s.storage[g.UUID] = g.Clone()
	return nil
}

func (s *GemStorage) GetByID(ctx context.Context, id uuid.UUID) (*gem.Gem, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	g, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return g.Clone(), nil
}

func (s *GemStorage) List(ctx context.Context) ([]*gem.Gem, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*gem.Gem, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

func (s *GemStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}
