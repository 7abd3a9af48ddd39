package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const transactionColumns = `uuid, type, category, amount, description, created_at, updated_at`

type LedgerStorage struct {
	pool *pgxpool.Pool
}

func scanTransaction(row scanner) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{}
	if err := row.Scan(&tx.UUID, &tx.Type, &tx.Category, &tx.Amount, &tx.Description, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *LedgerStorage) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO ledger_transactions (`+transactionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		tx.UUID, tx.Type, tx.Category, tx.Amount, tx.Description, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *LedgerStorage) UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	tag, err := s.pool.Exec(ctx, `UPDATE ledger_transactions
			SET type = $1, category = $2, amount = $3, description = $4, updated_at = $5
			WHERE uuid = $6`,
		tx.Type, tx.Category, tx.Amount, tx.Description, tx.UpdatedAt, tx.UUID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *LedgerStorage) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	tx, err := scanTransaction(s.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM ledger_transactions WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (s *LedgerStorage) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ledger_transactions WHERE uuid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *LedgerStorage) ListTransactions(ctx context.Context) ([]*ledger.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM ledger_transactions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []*ledger.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *LedgerStorage) EnsureCategory(ctx context.Context, name string) (*ledger.Category, error) {
	name = strings.TrimSpace(name)
	_, err := s.pool.Exec(ctx, `INSERT INTO ledger_categories (uuid, name, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT ((lower(name))) DO NOTHING`, uuid.New(), name)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	c := &ledger.Category{}
	err = s.pool.QueryRow(ctx, `SELECT uuid, name, created_at FROM ledger_categories
			WHERE lower(name) = lower($1)`, name).Scan(&c.UUID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("read category: %w", err)
	}
	return c, nil
}

func (s *LedgerStorage) ListCategories(ctx context.Context) ([]*ledger.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT uuid, name, created_at FROM ledger_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*ledger.Category{}
	for rows.Next() {
		c := &ledger.Category{}
		if err := rows.Scan(&c.UUID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
