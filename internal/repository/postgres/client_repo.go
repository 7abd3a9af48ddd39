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
	"github.com/thedreamteamconsultancy/workstatus/internal/models/client"
	repo "github.com/thedreamteamconsultancy/workstatus/internal/repository"
)

const clientColumns = `uuid, business_name, phone, project_type, custom_project_type,
	social_media_commitment, total_project_cost, work_split, company_split,
	created_at, updated_at`

type ClientStorage struct {
	pool *pgxpool.Pool
}

func scanClient(row scanner) (*client.Client, error) {
	c := &client.Client{}
	err := row.Scan(
		&c.UUID,
		&c.BusinessName,
		&c.Phone,
		&c.ProjectType,
		&c.CustomProjectType,
		&c.SocialMediaCommitment,
		&c.TotalProjectCost,
		&c.WorkSplit,
		&c.CompanySplit,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// normalize keeps jsonb arrays as arrays rather than null.
func normalize(c *client.Client) {
	if c.WorkSplit.AssignedGems == nil {
		c.WorkSplit.AssignedGems = []uuid.UUID{}
	}
	if c.CompanySplit.DigitalMarketingCosts == nil {
		c.CompanySplit.DigitalMarketingCosts = []client.DigitalMarketingCost{}
	}
}

func (s *ClientStorage) Create(ctx context.Context, c *client.Client) error {
	start := time.Now()
	defer warnIfSlow("client_create", start)

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	normalize(c)

	_, err := s.pool.Exec(ctx, `INSERT INTO clients (`+clientColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.UUID,
		c.BusinessName,
		c.Phone,
		c.ProjectType,
		c.CustomProjectType,
		c.SocialMediaCommitment,
		c.TotalProjectCost,
		c.WorkSplit,
		c.CompanySplit,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		logger.Error("Repository: failed to insert client", err, zap.String("client_id", c.UUID.String()))
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update writes the editable fields. The stored marketing cost list is
// carried over inside the same statement.
func (s *ClientStorage) Update(ctx context.Context, c *client.Client) (*client.Client, error) {
	start := time.Now()
	defer warnIfSlow("client_update", start)

	normalize(c)
	query := `UPDATE clients
			SET business_name = $1,
				phone = $2,
				project_type = $3,
				custom_project_type = $4,
				social_media_commitment = $5,
				total_project_cost = $6,
				work_split = $7,
				company_split = jsonb_set(
					$8::jsonb,
					'{digital_marketing_costs}',
					COALESCE(company_split->'digital_marketing_costs', '[]'::jsonb)
				),
				updated_at = $9
			WHERE uuid = $10
			RETURNING ` + clientColumns

	updated, err := scanClient(s.pool.QueryRow(ctx, query,
		c.BusinessName,
		c.Phone,
		c.ProjectType,
		c.CustomProjectType,
		c.SocialMediaCommitment,
		c.TotalProjectCost,
		c.WorkSplit,
		c.CompanySplit,
		c.UpdatedAt,
		c.UUID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to update client", err, zap.String("client_id", c.UUID.String()))
		return nil, fmt.Errorf("update client: %w", err)
	}
	return updated, nil
}

func (s *ClientStorage) SetTravellingCharges(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*client.Client, error) {
	start := time.Now()
	defer warnIfSlow("client_travelling_charges", start)

	query := `UPDATE clients
			SET company_split = jsonb_set(company_split, '{travelling_charges}', to_jsonb($1::float8)),
				updated_at = $2
			WHERE uuid = $3
			RETURNING ` + clientColumns

	c, err := scanClient(s.pool.QueryRow(ctx, query, amount, at, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to set travelling charges", err, zap.String("client_id", id.String()))
		return nil, fmt.Errorf("set travelling charges: %w", err)
	}
	return c, nil
}

// AppendDigitalMarketingCost appends in place so concurrent appends never
// overwrite each other.
func (s *ClientStorage) AppendDigitalMarketingCost(ctx context.Context, id uuid.UUID, cost client.DigitalMarketingCost, at time.Time) (*client.Client, error) {
	start := time.Now()
	defer warnIfSlow("client_append_dm_cost", start)

	query := `UPDATE clients
			SET company_split = jsonb_set(
					company_split,
					'{digital_marketing_costs}',
					CASE jsonb_typeof(company_split->'digital_marketing_costs')
						WHEN 'array' THEN company_split->'digital_marketing_costs'
						ELSE '[]'::jsonb
					END || jsonb_build_array($1::jsonb)
				),
				updated_at = $2
			WHERE uuid = $3
			RETURNING ` + clientColumns

	c, err := scanClient(s.pool.QueryRow(ctx, query, cost, at, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to append marketing cost", err, zap.String("client_id", id.String()))
		return nil, fmt.Errorf("append marketing cost: %w", err)
	}
	return c, nil
}

func (s *ClientStorage) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (s *ClientStorage) List(ctx context.Context) ([]*client.Client, error) {
	start := time.Now()
	defer warnIfSlow("client_list", start)

	rows, err := s.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, uuid`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []*client.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return clients, nil
}

func (s *ClientStorage) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE uuid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
