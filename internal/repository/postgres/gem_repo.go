package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thedreamteamconsultancy/workstatus/internal/models/gem"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const gemColumns = `uuid, name, phone, email, password, drive_folder_url, user_id, created_at, updated_at`

type GemStorage struct {
	pool *pgxpool.Pool
}

func scanGem(row scanner) (*gem.Gem, error) {
	g := &gem.Gem{}
	if err := row.Scan(
		&g.UUID,
		&g.Name,
		&g.Phone,
		&g.Email,
		&g.Password,
		&g.DriveFolderURL,
		&g.UserID,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GemStorage) Create(ctx context.Context, g *gem.Gem) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO gems (`+gemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		g.UUID, g.Name, g.Phone, g.Email, g.Password, g.DriveFolderURL, g.UserID, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert gem: %w", err)
	}
	return nil
}

func (s *GemStorage) Update(ctx context.Context, g *gem.Gem) error {
	tag, err := s.pool.Exec(ctx, `UPDATE gems
			SET name = $1, phone = $2, email = $3, password = $4,
				drive_folder_url = $5, user_id = $6, updated_at = $7
			WHERE uuid = $8`,
		g.Name, g.Phone, g.Email, g.Password, g.DriveFolderURL, g.UserID, g.UpdatedAt, g.UUID)
	if err != nil {
		return fmt.Errorf("update gem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *GemStorage) GetByID(ctx context.Context, id uuid.UUID) (*gem.Gem, error) {
	g, err := scanGem(s.pool.QueryRow(ctx, `SELECT `+gemColumns+` FROM gems WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get gem: %w", err)
	}
	return g, nil
}

func (s *GemStorage) List(ctx context.Context) ([]*gem.Gem, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+gemColumns+` FROM gems ORDER BY created_at, uuid`)
	if err != nil {
		return nil, fmt.Errorf("list gems: %w", err)
	}
	defer rows.Close()

	gems := []*gem.Gem{}
	for rows.Next() {
		g, err := scanGem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gem: %w", err)
		}
		gems = append(gems, g)
	}
	return gems, rows.Err()
}

func (s *GemStorage) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM gems WHERE uuid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
