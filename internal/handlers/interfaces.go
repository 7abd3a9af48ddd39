package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/service"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	Location() *time.Location
	Now() time.Time
	CreateTask(ctx context.Context, gemID uuid.UUID, title string, deadline time.Time, opts ...task.TaskOption) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, version int, opts ...task.TaskOption) (*task.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error)
	VerifyTask(ctx context.Context, id uuid.UUID, verified bool) (*task.Task, error)
	UpdateCompletedQuantity(ctx context.Context, id uuid.UUID, completed int) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error)
	CategorizedTasks(ctx context.Context, gemID *uuid.UUID) (lifecycle.Buckets, error)
	ClientProgress(ctx context.Context, clientID uuid.UUID) ([]lifecycle.Progress, error)
	RemainingCapacity(ctx context.Context, clientID uuid.UUID, kind task.CommitmentType, excludeID uuid.UUID) (lifecycle.Capacity, error)
}

type ClientService interface {
	CreateClient(ctx context.Context, c *client.Client) (*client.Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, c *client.Client) (*client.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error)
	ListClients(ctx context.Context) ([]*client.Client, error)
	AddDigitalMarketingCost(ctx context.Context, id uuid.UUID, amount float64, description string, date time.Time) (*client.Client, error)
	SetTravellingCharges(ctx context.Context, id uuid.UUID, amount float64) (*client.Client, error)
	ClientFinancials(ctx context.Context, id uuid.UUID) (lifecycle.ClientFinancials, error)
}

type GemService interface {
	CreateGem(ctx context.Context, g *gem.Gem) (*gem.Gem, error)
	UpdateGem(ctx context.Context, id uuid.UUID, g *gem.Gem) (*gem.Gem, error)
	DeleteGem(ctx context.Context, id uuid.UUID) error
	GetGem(ctx context.Context, id uuid.UUID) (*gem.Gem, error)
	ListGems(ctx context.Context) ([]*gem.Gem, error)
	GemStats(ctx context.Context, id uuid.UUID) (service.GemStats, error)
}

type LedgerService interface {
	CreateTransaction(ctx context.Context, txType ledger.TransactionType, category string, amount float64, description string) (*ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, txType ledger.TransactionType, category string, amount float64, description string) (*ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context) ([]*ledger.Transaction, error)
	ListCategories(ctx context.Context) ([]*ledger.Category, error)
	FinancialSummary(ctx context.Context) (ledger.Summary, error)
}

var (
	_ TaskService   = (*service.TaskService)(nil)
	_ ClientService = (*service.ClientService)(nil)
	_ GemService    = (*service.GemService)(nil)
	_ LedgerService = (*service.LedgerService)(nil)
)
