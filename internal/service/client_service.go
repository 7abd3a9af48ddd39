package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/lifecycle"
	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

type ClientService struct {
	clients ClientRepository
	tasks   TaskRepository
	clock   clock
}

func NewClientService(clients ClientRepository, tasks TaskRepository, opts ...Option) *ClientService {
	return &ClientService{
		clients: clients,
		tasks:   tasks,
		clock:   newClock(opts...),
	}
}

func (s *ClientService) CreateClient(ctx context.Context, c *client.Client) (*client.Client, error) {
	if err := validateClient(c); err != nil {
		return nil, err
	}

	now := s.clock.now()
	created := c.Clone()
	created.UUID = uuid.New()
	created.BusinessName = strings.TrimSpace(created.BusinessName)
	created.CompanySplit.DigitalMarketingCosts = []client.DigitalMarketingCost{}
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.clients.Create(ctx, created); err != nil {
		logger.Error("Service: failed to create client", err)
		return nil, NewStoreWriteFailed("client", err)
	}
	logger.Info("Service: client created", zap.String("client_id", created.UUID.String()))
	return created, nil
}

// UpdateClient replaces the editable fields. Marketing costs are append-only
// and survive any edit; a ceiling may not drop below what is already
// assigned.
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, c *client.Client) (*client.Client, error) {
	current, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceClient, id.String(), err)
	}
	if err := validateClient(c); err != nil {
		return nil, err
	}

	updated := c.Clone()
	updated.UUID = id
	updated.BusinessName = strings.TrimSpace(updated.BusinessName)
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.clock.now()

	if err := s.checkCeilings(ctx, updated); err != nil {
		return nil, err
	}

	stored, err := s.clients.Update(ctx, updated)
	if err != nil {
		logger.Error("Service: failed to update client", err, zap.String("client_id", id.String()))
		return nil, writeError("client", ResourceClient, id.String(), err)
	}
	return stored, nil
}

func (s *ClientService) checkCeilings(ctx context.Context, c *client.Client) error {
	linked, err := s.tasks.List(ctx, repo.TaskFilter{ClientID: &c.UUID})
	if err != nil {
		return fmt.Errorf("list client tasks: %w", err)
	}
	for _, kind := range task.CommitmentTypes() {
		capacity := lifecycle.RemainingCapacity(c, kind, linked, uuid.Nil)
		if !capacity.Unlimited && capacity.Used > capacity.Limit {
			return NewBusinessError(CodeValidation,
				fmt.Sprintf("ceiling for %s is below the %d units already assigned", kind, capacity.Used),
				ToDetail("field", "social_media_commitment"),
				ToDetail("type", kind),
				ToDetail("assigned", capacity.Used),
			)
		}
	}
	return nil
}

// DeleteClient unlinks the client's tasks and then removes the client. A
// failed unlink leaves the client in place so the call can be retried.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clients.GetByID(ctx, id); err != nil {
		return readError(ResourceClient, id.String(), err)
	}

	linked, err := s.tasks.List(ctx, repo.TaskFilter{ClientID: &id})
	if err != nil {
		return fmt.Errorf("list client tasks: %w", err)
	}
	now := s.clock.now()
	for _, t := range linked {
		if _, err := s.tasks.Update(ctx, t.UUID, task.Patch{ClearClient: true, UpdatedAt: now}); err != nil {
			logger.Error("Service: failed to unlink task from deleted client", err,
				zap.String("task_id", t.UUID.String()),
				zap.String("client_id", id.String()))
			return writeError("task unlink", ResourceTask, t.UUID.String(), err)
		}
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		return writeError("client deletion", ResourceClient, id.String(), err)
	}

	logger.Info("Service: client deleted",
		zap.String("client_id", id.String()),
		zap.Int("unlinked_tasks", len(linked)))
	return nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceClient, id.String(), err)
	}
	return c, nil
}

func (s *ClientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) AddDigitalMarketingCost(ctx context.Context, id uuid.UUID, amount float64, description string, date time.Time) (*client.Client, error) {
	if amount <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}
	now := s.clock.now()
	if date.IsZero() {
		date = now
	}
	cost := client.DigitalMarketingCost{
		ID:          uuid.New(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Date:        date,
	}

	updated, err := s.clients.AppendDigitalMarketingCost(ctx, id, cost, now)
	if err != nil {
		return nil, writeError("marketing cost", ResourceClient, id.String(), err)
	}
	return updated, nil
}

func (s *ClientService) SetTravellingCharges(ctx context.Context, id uuid.UUID, amount float64) (*client.Client, error) {
	if amount < 0 {
		return nil, NewValidationError("travelling_charges", "must not be negative")
	}
	updated, err := s.clients.SetTravellingCharges(ctx, id, amount, s.clock.now())
	if err != nil {
		return nil, writeError("travelling charges", ResourceClient, id.String(), err)
	}
	return updated, nil
}

func (s *ClientService) ClientFinancials(ctx context.Context, id uuid.UUID) (lifecycle.ClientFinancials, error) {
	c, err := s.GetClient(ctx, id)
	if err != nil {
		return lifecycle.ClientFinancials{}, err
	}
	return lifecycle.Financials(c), nil
}

func validateClient(c *client.Client) error {
	if strings.TrimSpace(c.BusinessName) == "" {
		return NewValidationError("business_name", "must not be empty")
	}
	if !c.ProjectType.Valid() {
		return NewValidationError("project_type", fmt.Sprintf("unknown project type %q", c.ProjectType))
	}
	if c.ProjectType == client.ProjectCustom && (c.CustomProjectType == nil || strings.TrimSpace(*c.CustomProjectType) == "") {
		return NewValidationError("custom_project_type", "required for custom projects")
	}
	if c.TotalProjectCost < 0 {
		return NewValidationError("total_project_cost", "must not be negative")
	}
	if c.CompanySplit.TravellingCharges < 0 {
		return NewValidationError("travelling_charges", "must not be negative")
	}
	if smc := c.SocialMediaCommitment; smc != nil {
		if smc.RealVideos < 0 || smc.AIVideos < 0 || smc.Posters < 0 || smc.DigitalMarketingViews < 0 {
			return NewValidationError("social_media_commitment", "targets must not be negative")
		}
	}
	return nil
}
