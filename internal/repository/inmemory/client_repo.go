package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type ClientStorage struct {
	storage map[uuid.UUID]*client.Client
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewClientStorage() *ClientStorage {
	return &ClientStorage{
		storage: make(map[uuid.UUID]*client.Client),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *ClientStorage) Create(ctx context.Context, c *client.Client) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	s.storage[c.UUID] = c.Clone()
	s.ids = append(s.ids, c.UUID)
	return nil
}

// Update replaces the editable fields. Marketing costs stay as stored.
func (s *ClientStorage) Update(ctx context.Context, c *client.Client) (*client.Client, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[c.UUID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	updated := c.Clone()
	updated.CompanySplit.DigitalMarketingCosts = existing.Clone().CompanySplit.DigitalMarketingCosts
	s.storage[c.UUID] = updated
	return updated.Clone(), nil
}

func (s *ClientStorage) SetTravellingCharges(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*client.Client, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	updated := existing.Clone()
	updated.CompanySplit.TravellingCharges = amount
	updated.UpdatedAt = at
	s.storage[id] = updated
	return updated.Clone(), nil
}

func (s *ClientStorage) AppendDigitalMarketingCost(ctx context.Context, id uuid.UUID, cost client.DigitalMarketingCost, at time.Time) (*client.Client, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	updated := existing.Clone()
	updated.CompanySplit.DigitalMarketingCosts = append(updated.CompanySplit.DigitalMarketingCosts, cost)
	updated.UpdatedAt = at
	s.storage[id] = updated
	return updated.Clone(), nil
}

func (s *ClientStorage) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *ClientStorage) List(ctx context.Context) ([]*client.Client, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*client.Client, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

func (s *ClientStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	s.ids = removeID(s.ids, id)
	return nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for ind, val := range ids {
		if val == id {
			return append(ids[:ind], ids[ind+1:]...)
		}
	}
	return ids
}
