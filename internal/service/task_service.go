package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
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

// TaskService owns every task mutation. Validation always runs before the
// store is touched.
type TaskService struct {
	tasks   TaskRepository
	clients ClientRepository
	gems    GemRepository
	clock   clock

	commitments *clientLocks
}

func NewTaskService(tasks TaskRepository, clients ClientRepository, gems GemRepository, opts ...Option) *TaskService {
	return &TaskService{
		tasks:   tasks,
		clients: clients,
		gems:    gems,
		clock:   newClock(opts...),

		commitments: newClientLocks(),
	}
}

func (s *TaskService) Location() *time.Location { return s.clock.loc }

func (s *TaskService) Now() time.Time { return s.clock.now() }

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.tasks.HealthCheck(ctx); err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	return nil
}

// CreateTask always starts the task in pending, whatever the options say.
func (s *TaskService) CreateTask(ctx context.Context, gemID uuid.UUID, title string, deadline time.Time, opts ...task.TaskOption) (*task.Task, error) {
	if gemID == uuid.Nil {
		return nil, NewValidationError("gem_id", "required")
	}
	if _, err := s.gems.GetByID(ctx, gemID); err != nil {
		return nil, readError(ResourceGem, gemID.String(), err)
	}

	now := s.clock.now()
	newTask := &task.Task{
		UUID:      uuid.New(),
		GemID:     gemID,
		Title:     strings.TrimSpace(title),
		Deadline:  deadline,
		Priority:  task.PriorityMedium,
		DriveMode: task.DriveFixed,
	}
	for _, opt := range opts {
		opt(newTask)
	}
	newTask.Status = task.StatusPending
	newTask.CreatedAt = now
	newTask.UpdatedAt = now

	unlock := s.commitments.lock(newTask.ClientID)
	defer unlock()

	if err := s.validate(ctx, newTask, uuid.Nil, true); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, newTask); err != nil {
		logger.Error("Service: failed to create task", err, zap.String("gem_id", gemID.String()))
		return nil, NewStoreWriteFailed("task", err)
	}

	logger.Info("Service: task created",
		zap.String("task_id", newTask.UUID.String()),
		zap.String("gem_id", gemID.String()))
	return newTask, nil
}

// UpdateTask applies an admin edit. Status and owner cannot change here.
// version, when non-zero, must match the stored version.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, version int, opts ...task.TaskOption) (*task.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceTask, id.String(), err)
	}
	if version != 0 && version != current.Version {
		return nil, NewVersionConflict(ResourceTask, id.String())
	}

	edited := current.Clone()
	for _, opt := range opts {
		opt(edited)
	}
	edited.GemID = current.GemID
	edited.Status = current.Status
	edited.Title = strings.TrimSpace(edited.Title)

	unlock := s.commitments.lock(edited.ClientID)
	defer unlock()

	if err := s.validate(ctx, edited, id, commitmentChanged(current, edited)); err != nil {
		return nil, err
	}

	patch := editPatch(edited, s.clock.now())
	patch.ExpectedVersion = current.Version

	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		logger.Error("Service: failed to update task", err, zap.String("task_id", id.String()))
		return nil, writeError("task", ResourceTask, id.String(), err)
	}
	return updated, nil
}

// UpdateStatus runs a manual transition. Moving into delayed writes the
// urgent priority and delay timestamp in the same update.
func (s *TaskService) UpdateStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceTask, id.String(), err)
	}

	patch, err := lifecycle.Transition(current, status, s.clock.now(), false)
	if err != nil {
		return nil, transitionError(err, current.Status, status)
	}
	patch.ExpectedVersion = current.Version

	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		logger.Error("Service: failed to update task status", err,
			zap.String("task_id", id.String()),
			zap.String("status", string(status)))
		return nil, writeError("task status", ResourceTask, id.String(), err)
	}

	logger.Info("Service: task status changed",
		zap.String("task_id", id.String()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)))
	return updated, nil
}

// DelayOverdue re-reads the task and delays it if it is still overdue. It
// reports whether a write happened.
func (s *TaskService) DelayOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read task %s: %w", id, err)
	}

	now := s.clock.now()
	if !lifecycle.IsOverdue(current, now) {
		return false, nil
	}

	patch, err := lifecycle.Transition(current, task.StatusDelayed, now, true)
	if err != nil {
		return false, err
	}
	patch.ExpectedVersion = current.Version

	if _, err := s.tasks.Update(ctx, id, patch); err != nil {
		return false, fmt.Errorf("delay task %s: %w", id, err)
	}
	return true, nil
}

// VerifyTask sets or clears the admin verification flag. Setting it needs a
// completed, client-linked task.
func (s *TaskService) VerifyTask(ctx context.Context, id uuid.UUID, verified bool) (*task.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceTask, id.String(), err)
	}

	if current.ClientID == nil {
		return nil, NewBusinessError(CodeNotEligible, "only client tasks carry verification",
			ToDetail("task_id", id.String()))
	}
	if verified {
		if err := lifecycle.CanVerify(current); err != nil {
			return nil, NewBusinessError(CodeNotEligible, "only completed tasks can be verified",
				ToDetail("task_id", id.String()),
				ToDetail("status", current.Status))
		}
	}

	patch := task.Patch{
		AdminVerified:   task.Ptr(verified),
		UpdatedAt:       s.clock.now(),
		ExpectedVersion: current.Version,
	}
	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, writeError("task verification", ResourceTask, id.String(), err)
	}
	return updated, nil
}

// UpdateCompletedQuantity records delivered units without touching status or
// verification.
func (s *TaskService) UpdateCompletedQuantity(ctx context.Context, id uuid.UUID, completed int) (*task.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceTask, id.String(), err)
	}
	if err := lifecycle.ValidateCompletedQuantity(current, completed); err != nil {
		return nil, quantityError("completed_quantity", err)
	}

	patch := task.Patch{
		CompletedQuantity: task.Ptr(completed),
		UpdatedAt:         s.clock.now(),
		ExpectedVersion:   current.Version,
	}
	updated, err := s.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, writeError("completed quantity", ResourceTask, id.String(), err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		logger.Error("Service: failed to delete task", err, zap.String("task_id", id.String()))
		return writeError("task deletion", ResourceTask, id.String(), err)
	}
	logger.Info("Service: task deleted", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, readError(ResourceTask, id.String(), err)
	}
	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CategorizedTasks groups a gem's tasks, or all tasks when gemID is nil,
// into present, future and past.
func (s *TaskService) CategorizedTasks(ctx context.Context, gemID *uuid.UUID) (lifecycle.Buckets, error) {
	tasks, err := s.ListTasks(ctx, repo.TaskFilter{GemID: gemID})
	if err != nil {
		return lifecycle.Buckets{}, err
	}
	return lifecycle.Group(tasks, s.clock.now(), s.clock.loc), nil
}

func (s *TaskService) ClientProgress(ctx context.Context, clientID uuid.UUID) ([]lifecycle.Progress, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, readError(ResourceClient, clientID.String(), err)
	}
	tasks, err := s.ListTasks(ctx, repo.TaskFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}
	return lifecycle.ClientProgress(c, tasks), nil
}

// RemainingCapacity reports what is left of the client's ceiling. excludeID
// is the task being edited, uuid.Nil when creating.
func (s *TaskService) RemainingCapacity(ctx context.Context, clientID uuid.UUID, kind task.CommitmentType, excludeID uuid.UUID) (lifecycle.Capacity, error) {
	if !kind.Valid() {
		return lifecycle.Capacity{}, NewValidationError("commitment_type", fmt.Sprintf("unknown type %q", kind))
	}
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return lifecycle.Capacity{}, readError(ResourceClient, clientID.String(), err)
	}
	return s.capacity(ctx, c, kind, excludeID)
}

func (s *TaskService) capacity(ctx context.Context, c *client.Client, kind task.CommitmentType, excludeID uuid.UUID) (lifecycle.Capacity, error) {
	linked, err := s.ListTasks(ctx, repo.TaskFilter{ClientID: &c.UUID})
	if err != nil {
		return lifecycle.Capacity{}, err
	}
	return lifecycle.RemainingCapacity(c, kind, linked, excludeID), nil
}

func (s *TaskService) validate(ctx context.Context, t *task.Task, excludeID uuid.UUID, checkCapacity bool) error {
	if t.Title == "" {
		return NewValidationError("title", "must not be empty")
	}
	if t.Deadline.IsZero() {
		return NewValidationError("deadline", "required")
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("unknown priority %q", t.Priority))
	}
	if err := validateDrive(t); err != nil {
		return err
	}

	if t.CommitmentType != nil && !t.CommitmentType.Valid() {
		return NewValidationError("commitment_type", fmt.Sprintf("unknown type %q", *t.CommitmentType))
	}
	if t.CommitmentType != nil && t.ClientID == nil {
		return NewValidationError("client_id", "required with a commitment type")
	}
	if err := lifecycle.CheckInvariants(t); err != nil {
		return NewValidationError("task", err.Error())
	}

	if t.ClientID == nil || !checkCapacity {
		return nil
	}
	c, err := s.clients.GetByID(ctx, *t.ClientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewValidationError("client_id", "unknown client")
		}
		return fmt.Errorf("read client: %w", err)
	}
	if !t.HasCommitment() {
		return nil
	}

	capacity, err := s.capacity(ctx, c, *t.CommitmentType, excludeID)
	if err != nil {
		return err
	}
	if err := lifecycle.ValidateQuantity(capacity, *t.Quantity); err != nil {
		return quantityError("quantity", err)
	}
	return nil
}

func validateDrive(t *task.Task) error {
	switch t.DriveMode {
	case task.DriveFixed:
		if t.AssetURL != nil || t.UploadURL != nil {
			return NewValidationError("drive_mode", "task links are only allowed in dynamic mode")
		}
	case task.DriveDynamic:
		for field, link := range map[string]*string{"asset_url": t.AssetURL, "upload_url": t.UploadURL} {
			if link == nil {
				continue
			}
			u, err := url.Parse(*link)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return NewValidationError(field, "must be an http(s) URL")
			}
		}
	default:
		return NewValidationError("drive_mode", fmt.Sprintf("unknown mode %q", t.DriveMode))
	}
	return nil
}

func commitmentChanged(before, after *task.Task) bool {
	return !equalPtr(before.ClientID, after.ClientID) ||
		!equalPtr(before.CommitmentType, after.CommitmentType) ||
		!equalPtr(before.Quantity, after.Quantity)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// editPatch carries every admin-editable field of t.
func editPatch(t *task.Task, now time.Time) task.Patch {
	patch := task.Patch{
		Title:       task.Ptr(t.Title),
		Description: task.Ptr(t.Description),
		Deadline:    task.Ptr(t.Deadline),
		Priority:    task.Ptr(t.Priority),
		DriveMode:   task.Ptr(t.DriveMode),
		ClearURLs:   true,
		AssetURL:    t.AssetURL,
		UploadURL:   t.UploadURL,
		UpdatedAt:   now,
	}
	if t.ClientID == nil {
		patch.ClearClient = true
		return patch
	}
	patch.ClearCommitment = true
	patch.ClientID = t.ClientID
	patch.CommitmentType = t.CommitmentType
	patch.Quantity = t.Quantity
	patch.CompletedQuantity = t.CompletedQuantity
	patch.AdminVerified = t.AdminVerified
	return patch
}

func transitionError(err error, from, to task.Status) error {
	return NewBusinessError(CodeInvalidTransition, err.Error(),
		ToDetail("from", from),
		ToDetail("to", to),
	)
}

func quantityError(field string, err error) error {
	var qerr *lifecycle.QuantityError
	if errors.As(err, &qerr) {
		return NewBusinessError(CodeValidation,
			fmt.Sprintf("invalid value for '%s': %s", field, qerr.Error()),
			ToDetail("field", field),
			ToDetail("requested", qerr.Requested),
			ToDetail("min", qerr.Min),
			ToDetail("max", qerr.Max),
		)
	}
	return NewValidationError(field, err.Error())
}
