package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type LedgerStorage struct {
	transactions map[uuid.UUID]*ledger.Transaction
	categories   map[string]*ledger.Category
	mtx          *sync.RWMutex
}

func NewLedgerStorage() *LedgerStorage {
	return &LedgerStorage{
		transactions: make(map[uuid.UUID]*ledger.Transaction),
		categories:   make(map[string]*ledger.Category),
		mtx:          &sync.RWMutex{},
	}
}

func (s *LedgerStorage) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	s.transactions[tx.UUID] = &cp
	return nil
}

func (s *LedgerStorage) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.transactions[tx.UUID]; !ok {
		return repo.ErrNotFound
	}
	cp := *tx
	s.transactions[tx.UUID] = &cp
	return nil
}

func (s *LedgerStorage) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *LedgerStorage) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

// ListTransactions returns the newest entries first.
func (s *LedgerStorage) ListTransactions(ctx context.Context) ([]*ledger.Transaction, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*ledger.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		cp := *tx
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// EnsureCategory returns the category whose name matches case-insensitively,
// registering it first if it is new.
func (s *LedgerStorage) EnsureCategory(ctx context.Context, name string) (*ledger.Category, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if c, ok := s.categories[key]; ok {
		cp := *c
		return &cp, nil
	}
	c := &ledger.Category{UUID: uuid.New(), Name: strings.TrimSpace(name), CreatedAt: time.Now()}
	s.categories[key] = c
	cp := *c
	return &cp, nil
}

func (s *LedgerStorage) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*ledger.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})
	return res, nil
}
