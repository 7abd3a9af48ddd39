package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
)

type LedgerService struct {
	ledger  LedgerRepository
	clients ClientRepository
	clock   clock
}

func NewLedgerService(l LedgerRepository, clients ClientRepository, opts ...Option) *LedgerService {
	return &LedgerService{
		ledger:  l,
		clients: clients,
		clock:   newClock(opts...),
	}
}

// CreateTransaction records the entry and registers its category when the
// name is new, ignoring case.
func (s *LedgerService) CreateTransaction(ctx context.Context, txType ledger.TransactionType, category string, amount float64, description string) (*ledger.Transaction, error) {
	if err := validateTransaction(txType, category, amount); err != nil {
		return nil, err
	}

	cat, err := s.ledger.EnsureCategory(ctx, category)
	if err != nil {
		return nil, NewStoreWriteFailed("category", err)
	}

	tx := &ledger.Transaction{
		UUID:        uuid.New(),
		Type:        txType,
		Category:    cat.Name,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.clock.now(),
	}
	if err := s.ledger.CreateTransaction(ctx, tx); err != nil {
		return nil, NewStoreWriteFailed("transaction", err)
	}
	return tx, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id uuid.UUID, txType ledger.TransactionType, category string, amount float64, description string) (*ledger.Transaction, error) {
	current, err := s.ledger.GetTransaction(ctx, id)
	if err != nil {
		return nil, readError(ResourceTransaction, id.String(), err)
	}
	if err := validateTransaction(txType, category, amount); err != nil {
		return nil, err
	}

	cat, err := s.ledger.EnsureCategory(ctx, category)
	if err != nil {
		return nil, NewStoreWriteFailed("category", err)
	}

	now := s.clock.now()
	current.Type = txType
	current.Category = cat.Name
	current.Amount = amount
	current.Description = strings.TrimSpace(description)
	current.UpdatedAt = &now

	if err := s.ledger.UpdateTransaction(ctx, current); err != nil {
		return nil, writeError("transaction", ResourceTransaction, id.String(), err)
	}
	return current, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return writeError("transaction deletion", ResourceTransaction, id.String(), err)
	}
	return nil
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]*ledger.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	cats, err := s.ledger.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *LedgerService) FinancialSummary(ctx context.Context) (ledger.Summary, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("list clients: %w", err)
	}
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return lifecycle.Summarize(clients, txs), nil
}

func validateTransaction(txType ledger.TransactionType, category string, amount float64) error {
	if !txType.Valid() {
		return NewValidationError("type", fmt.Sprintf("unknown transaction type %q", txType))
	}
	if strings.TrimSpace(category) == "" {
		return NewValidationError("category", "must not be empty")
	}
	if amount <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	return nil
}
