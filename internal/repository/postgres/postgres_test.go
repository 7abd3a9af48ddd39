package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/ledger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository"
	"github.com/thedreamteamconsultancy/workstatus/internal/repository/postgres"
)

type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)
	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), postgres.Migrate(s.connString))

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.PoolConfig{})
	require.NoError(s.T(), err)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE tasks, gems, clients, ledger_transactions, ledger_categories")
	require.NoError(s.T(), err)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) createGem() *gem.Gem {
	g := &gem.Gem{UUID: uuid.New(), Name: "Ravi", Email: "ravi@example.com", Password: "secret"}
	require.NoError(s.T(), s.storage.Gems().Create(s.ctx, g))
	return g
}

func (s *PostgresTestSuite) newTask(gemID uuid.UUID) *task.Task {
	return &task.Task{
		UUID:      uuid.New(),
		GemID:     gemID,
		Title:     "Edit product reel",
		Priority:  task.PriorityMedium,
		Status:    task.StatusPending,
		DriveMode: task.DriveFixed,
		Deadline:  time.Now().Add(24 * time.Hour).UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresTestSuite) TestTask_CreateAndGet() {
	g := s.createGem()
	tasks := s.storage.Tasks()

	tk := s.newTask(g.UUID)
	task.WithCommitment(uuid.New(), task.CommitmentRealVideo, 3)(tk)
	require.NoError(s.T(), tasks.Create(s.ctx, tk))
	assert.Equal(s.T(), 1, tk.Version)

	got, err := tasks.GetByID(s.ctx, tk.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), tk.Title, got.Title)
	require.NotNil(s.T(), got.CommitmentType)
	assert.Equal(s.T(), task.CommitmentRealVideo, *got.CommitmentType)
	assert.Equal(s.T(), 3, *got.Quantity)
	assert.Equal(s.T(), 0, *got.CompletedQuantity)
	assert.False(s.T(), *got.AdminVerified)
	assert.Nil(s.T(), got.AssetURL)
}

func (s *PostgresTestSuite) TestTask_GetByID_NotFound() {
	_, err := s.storage.Tasks().GetByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestTask_UpdateDelayed() {
	g := s.createGem()
	tasks := s.storage.Tasks()
	tk := s.newTask(g.UUID)
	require.NoError(s.T(), tasks.Create(s.ctx, tk))

	now := time.Now().UTC().Truncate(time.Microsecond)
	updated, err := tasks.Update(s.ctx, tk.UUID, task.Patch{
		Status:      task.Ptr(task.StatusDelayed),
		Priority:    task.Ptr(task.PriorityUrgent),
		DelayedAt:   task.Ptr(now),
		AutoDelayed: task.Ptr(true),
		UpdatedAt:   now,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, updated.Version)

	got, err := tasks.GetByID(s.ctx, tk.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), task.StatusDelayed, got.Status)
	assert.Equal(s.T(), task.PriorityUrgent, got.Priority)
	assert.True(s.T(), got.AutoDelayed)
	require.NotNil(s.T(), got.DelayedAt)
	assert.True(s.T(), now.Equal(*got.DelayedAt))
}

func (s *PostgresTestSuite) TestTask_UpdateVersionConflict() {
	g := s.createGem()
	tasks := s.storage.Tasks()
	tk := s.newTask(g.UUID)
	require.NoError(s.T(), tasks.Create(s.ctx, tk))

	_, err := tasks.Update(s.ctx, tk.UUID, task.Patch{Title: task.Ptr("first"), ExpectedVersion: 1})
	require.NoError(s.T(), err)

	_, err = tasks.Update(s.ctx, tk.UUID, task.Patch{Title: task.Ptr("second"), ExpectedVersion: 1})
	assert.ErrorIs(s.T(), err, repository.ErrVersionConflict)

	_, err = tasks.Update(s.ctx, uuid.New(), task.Patch{Title: task.Ptr("ghost")})
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestTask_ListAndDeleteByGem() {
	g1, g2 := s.createGem(), s.createGem()
	tasks := s.storage.Tasks()
	for i := 0; i < 3; i++ {
		require.NoError(s.T(), tasks.Create(s.ctx, s.newTask(g1.UUID)))
	}
	require.NoError(s.T(), tasks.Create(s.ctx, s.newTask(g2.UUID)))

	byGem, err := tasks.List(s.ctx, repository.TaskFilter{GemID: &g1.UUID})
	require.NoError(s.T(), err)
	assert.Len(s.T(), byGem, 3)

	removed, err := tasks.DeleteByGem(s.ctx, g1.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, removed)

	all, err := tasks.List(s.ctx, repository.TaskFilter{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 1)
}

func (s *PostgresTestSuite) TestTask_Subscribe() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	g := s.createGem()
	tasks := s.storage.Tasks()

	feed, err := tasks.Subscribe(ctx, repository.TaskFilter{})
	require.NoError(s.T(), err)

	select {
	case snap := <-feed:
		assert.Empty(s.T(), snap)
	case <-time.After(5 * time.Second):
		s.T().Fatal("no initial snapshot")
	}

	require.NoError(s.T(), tasks.Create(s.ctx, s.newTask(g.UUID)))

	select {
	case snap := <-feed:
		assert.Len(s.T(), snap, 1)
	case <-time.After(5 * time.Second):
		s.T().Fatal("no snapshot after insert")
	}
}

func (s *PostgresTestSuite) TestClient_RoundTripAndAppendCost() {
	clients := s.storage.Clients()
	c := &client.Client{
		UUID:                  uuid.New(),
		BusinessName:          "Green Leaf",
		ProjectType:           client.ProjectSocialMediaManagement,
		SocialMediaCommitment: &client.SocialMediaCommitment{RealVideos: 5, Posters: 12},
		TotalProjectCost:      30000,
		WorkSplit:             client.WorkSplit{ClientManager: "Meera"},
	}
	require.NoError(s.T(), clients.Create(s.ctx, c))

	for _, amount := range []float64{1000, 250} {
		_, err := clients.AppendDigitalMarketingCost(s.ctx, c.UUID, client.DigitalMarketingCost{
			ID:     uuid.New(),
			Amount: amount,
			Date:   time.Now().UTC(),
		}, time.Now())
		require.NoError(s.T(), err)
	}

	got, err := clients.GetByID(s.ctx, c.UUID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.SocialMediaCommitment)
	assert.Equal(s.T(), 5, got.SocialMediaCommitment.RealVideos)
	assert.Len(s.T(), got.CompanySplit.DigitalMarketingCosts, 2)
	assert.InDelta(s.T(), 1250, got.DigitalMarketingTotal(), 0.001)
	assert.Equal(s.T(), "Meera", got.WorkSplit.ClientManager)

	_, err = clients.AppendDigitalMarketingCost(s.ctx, uuid.New(), client.DigitalMarketingCost{}, time.Now())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	edit := got.Clone()
	edit.BusinessName = "Green Leaf Organics"
	edit.CompanySplit.DigitalMarketingCosts = nil
	edited, err := clients.Update(s.ctx, edit)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Green Leaf Organics", edited.BusinessName)
	assert.Len(s.T(), edited.CompanySplit.DigitalMarketingCosts, 2)

	charged, err := clients.SetTravellingCharges(s.ctx, c.UUID, 480, time.Now())
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 480, charged.CompanySplit.TravellingCharges, 0.001)
	assert.Len(s.T(), charged.CompanySplit.DigitalMarketingCosts, 2)

	_, err = clients.SetTravellingCharges(s.ctx, uuid.New(), 1, time.Now())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestGem_DeleteCascadesTasks() {
	g := s.createGem()
	tasks := s.storage.Tasks()
	require.NoError(s.T(), tasks.Create(s.ctx, s.newTask(g.UUID)))

	require.NoError(s.T(), s.storage.Gems().Delete(s.ctx, g.UUID))

	left, err := tasks.List(s.ctx, repository.TaskFilter{GemID: &g.UUID})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), left)
}

func (s *PostgresTestSuite) TestLedger_Categories() {
	l := s.storage.Ledger()

	first, err := l.EnsureCategory(s.ctx, "Software")
	require.NoError(s.T(), err)
	second, err := l.EnsureCategory(s.ctx, "software")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), first.UUID, second.UUID)

	tx := &ledger.Transaction{UUID: uuid.New(), Type: ledger.TypeExpense, Category: first.Name, Amount: 99}
	require.NoError(s.T(), l.CreateTransaction(s.ctx, tx))

	txs, err := l.ListTransactions(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 1)
	assert.InDelta(s.T(), 99, txs[0].Amount, 0.001)
}
