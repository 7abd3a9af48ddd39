package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

// GemStats counts a gem's tasks per status.
type GemStats struct {
	GemID     uuid.UUID `json:"gem_id"`
	Total     int       `json:"total"`
	Pending   int       `json:"pending"`
	Ongoing   int       `json:"ongoing"`
	Completed int       `json:"completed"`
	Delayed   int       `json:"delayed"`
}

type GemService struct {
	gems  GemRepository
	tasks TaskRepository
	clock clock
}

func NewGemService(gems GemRepository, tasks TaskRepository, opts ...Option) *GemService {
	return &GemService{
		gems:  gems,
		tasks: tasks,
		clock: newClock(opts...),
	}
}

func (s *GemService) CreateGem(ctx context.Context, g *gem.Gem) (*gem.Gem, error) {
	if err := validateGem(g); err != nil {
		return nil, err
	}
	if strings.TrimSpace(g.Password) == "" {
		return nil, NewValidationError("password", "must not be empty")
	}

	created := g.Clone()
	created.UUID = uuid.New()
	created.CreatedAt = s.clock.now()
	created.UpdatedAt = nil

	if err := s.gems.Create(ctx, created); err != nil {
		logger.Error("Service: failed to create gem", err)
		return nil, NewStoreWriteFailed("gem", err)
	}
	logger.Info("Service: gem created", zap.String("gem_id", created.UUID.String()))
	return created, nil
}

// UpdateGem edits the profile. An empty password keeps the current one.
func (s *GemService) UpdateGem(ctx context.Context, id uuid.UUID, g *gem.Gem) (*gem.Gem, error) {
	current, err := s.gems.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceGem, id.String(), err)
	}
	if err := validateGem(g); err != nil {
		return nil, err
	}

	updated := g.Clone()
	updated.UUID = id
	updated.CreatedAt = current.CreatedAt
	if strings.TrimSpace(updated.Password) == "" {
		updated.Password = current.Password
	}
	if updated.UserID == nil {
		updated.UserID = current.UserID
	}
	now := s.clock.now()
	updated.UpdatedAt = &now

	if err := s.gems.Update(ctx, updated); err != nil {
		return nil, writeError("gem", ResourceGem, id.String(), err)
	}
	return updated, nil
}

// DeleteGem removes the gem together with every task it owns.
func (s *GemService) DeleteGem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.gems.GetByID(ctx, id); err != nil {
		return readError(ResourceGem, id.String(), err)
	}

	removed, err := s.tasks.DeleteByGem(ctx, id)
	if err != nil {
		logger.Error("Service: failed to delete gem tasks", err, zap.String("gem_id", id.String()))
		return NewStoreWriteFailed("gem tasks", err)
	}
	if err := s.gems.Delete(ctx, id); err != nil {
		return writeError("gem deletion", ResourceGem, id.String(), err)
	}

	logger.Info("Service: gem deleted",
		zap.String("gem_id", id.String()),
		zap.Int("deleted_tasks", removed))
	return nil
}

func (s *GemService) GetGem(ctx context.Context, id uuid.UUID) (*gem.Gem, error) {
	g, err := s.gems.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceGem, id.String(), err)
	}
	return g, nil
}

func (s *GemService) ListGems(ctx context.Context) ([]*gem.Gem, error) {
	gems, err := s.gems.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gems: %w", err)
	}
	return gems, nil
}

func (s *GemService) GemStats(ctx context.Context, id uuid.UUID) (GemStats, error) {
	if _, err := s.GetGem(ctx, id); err != nil {
		return GemStats{}, err
	}
	tasks, err := s.tasks.List(ctx, repo.TaskFilter{GemID: &id})
	if err != nil {
		return GemStats{}, fmt.Errorf("list gem tasks: %w", err)
	}

	stats := GemStats{GemID: id, Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusPending:
			stats.Pending++
		case task.StatusOngoing:
			stats.Ongoing++
		case task.StatusCompleted:
			stats.Completed++
		case task.StatusDelayed:
			stats.Delayed++
		}
	}
	return stats, nil
}

func validateGem(g *gem.Gem) error {
	if strings.TrimSpace(g.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	if _, err := mail.ParseAddress(g.Email); err != nil {
		return NewValidationError("email", "must be a valid address")
	}
	return nil
}
