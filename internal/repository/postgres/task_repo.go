package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/models/task"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const taskColumns = `uuid, gem_id, title, description, deadline, priority, status,
	drive_mode, asset_url, upload_url,
	client_id, commitment_type, quantity, completed_quantity, admin_verified,
	delayed_at, auto_delayed, created_at, updated_at, version`

type TaskStorage struct {
	pool *pgxpool.Pool
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.GemID,
		&t.Title,
		&t.Description,
		&t.Deadline,
		&t.Priority,
		&t.Status,
		&t.DriveMode,
		&t.AssetURL,
		&t.UploadURL,
		&t.ClientID,
		&t.CommitmentType,
		&t.Quantity,
		&t.CompletedQuantity,
		&t.AdminVerified,
		&t.DelayedAt,
		&t.AutoDelayed,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("task_create", start)

	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now()
	}
	if taskToCreate.UpdatedAt.IsZero() {
		taskToCreate.UpdatedAt = taskToCreate.CreatedAt
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 1)
			RETURNING version`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.GemID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Deadline,
		taskToCreate.Priority,
		taskToCreate.Status,
		taskToCreate.DriveMode,
		taskToCreate.AssetURL,
		taskToCreate.UploadURL,
		taskToCreate.ClientID,
		taskToCreate.CommitmentType,
		taskToCreate.Quantity,
		taskToCreate.CompletedQuantity,
		taskToCreate.AdminVerified,
		taskToCreate.DelayedAt,
		taskToCreate.AutoDelayed,
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
	).Scan(&taskToCreate.Version)
	if err != nil {
		logger.Error("Repository: failed to insert task", err,
			zap.String("task_id", taskToCreate.UUID.String()))
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update reads the row under a lock, applies the patch and writes it back
// guarded by the version it read.
func (s *TaskStorage) Update(ctx context.Context, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("task_update", start)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanTask(tx.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE uuid = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}

	expected := current.Version
	if patch.ExpectedVersion != 0 {
		expected = patch.ExpectedVersion
	}

	patch.Apply(current)
	if patch.UpdatedAt.IsZero() {
		current.UpdatedAt = time.Now()
	}

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				deadline = $3,
				priority = $4,
				status = $5,
				drive_mode = $6,
				asset_url = $7,
				upload_url = $8,
				client_id = $9,
				commitment_type = $10,
				quantity = $11,
				completed_quantity = $12,
				admin_verified = $13,
				delayed_at = $14,
				auto_delayed = $15,
				updated_at = $16,
				version = version + 1
			WHERE uuid = $17 AND version = $18
			RETURNING version`

	err = tx.QueryRow(ctx, query,
		current.Title,
		current.Description,
		current.Deadline,
		current.Priority,
		current.Status,
		current.DriveMode,
		current.AssetURL,
		current.UploadURL,
		current.ClientID,
		current.CommitmentType,
		current.Quantity,
		current.CompletedQuantity,
		current.AdminVerified,
		current.DelayedAt,
		current.AutoDelayed,
		current.UpdatedAt,
		id,
		expected,
	).Scan(&current.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn("Repository: version conflict on task update",
				zap.String("task_id", id.String()),
				zap.Int("expected_version", expected))
			return nil, repo.ErrVersionConflict
		}
		logger.Error("Repository: failed to update task", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return current, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("task_get", start)

	t, err := scanTask(s.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.String("task_id", id.String()))
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStorage) List(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("task_list", start)

	query := `SELECT ` + taskColumns + ` FROM tasks
			WHERE ($1::uuid IS NULL OR gem_id = $1)
			  AND ($2::uuid IS NULL OR client_id = $2)
			ORDER BY created_at, uuid`

	rows, err := s.pool.Query(ctx, query, filter.GemID, filter.ClientID)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("task_delete", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err, zap.String("task_id", id.String()))
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *TaskStorage) DeleteByGem(ctx context.Context, gemID uuid.UUID) (int, error) {
	start := time.Now()
	defer warnIfSlow("task_delete_by_gem", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE gem_id = $1`, gemID)
	if err != nil {
		logger.Error("Repository: failed to delete gem tasks", err, zap.String("gem_id", gemID.String()))
		return 0, fmt.Errorf("delete gem tasks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
