package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, id uuid.UUID, patch task.Patch) (*task.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	List(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByGem(ctx context.Context, gemID uuid.UUID) (int, error)
	Subscribe(ctx context.Context, filter repo.TaskFilter) (<-chan repo.Snapshot, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *client.Client) error
	// Update never writes the marketing cost list; the stored list is kept
	// and returned with the result.
	Update(ctx context.Context, c *client.Client) (*client.Client, error)
	SetTravellingCharges(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*client.Client, error)
	AppendDigitalMarketingCost(ctx context.Context, id uuid.UUID, cost client.DigitalMarketingCost, at time.Time) (*client.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error)
	List(ctx context.Context) ([]*client.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GemRepository interface {
	Create(ctx context.Context, g *gem.Gem) error
	Update(ctx context.Context, g *gem.Gem) error
	GetByID(ctx context.Context, id uuid.UUID) (*gem.Gem, error)
	List(ctx context.Context) ([]*gem.Gem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *ledger.Transaction) error
	UpdateTransaction(ctx context.Context, tx *ledger.Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context) ([]*ledger.Transaction, error)
	EnsureCategory(ctx context.Context, name string) (*ledger.Category, error)
	ListCategories(ctx context.Context) ([]*ledger.Category, error)
}
