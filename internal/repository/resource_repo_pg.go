package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context) ([]domain.Resource, error)
	Delete(ctx context.Context, id int64) error
}

type PGResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) ResourceRepository {
	return &PGResourceRepository{db: db}
}

func (r *PGResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	return r.db.QueryRow(ctx, `INSERT INTO resources (name, description, hourly_rate)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, resource.Name, resource.Description, resource.HourlyRate).
		Scan(&resource.ID, &resource.CreatedAt)
}

func (r *PGResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, hourly_rate, created_at FROM resources WHERE id=$1`, id)
	var res domain.Resource
	if err := row.Scan(&res.ID, &res.Name, &res.Description, &res.HourlyRate, &res.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGResourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, hourly_rate, created_at FROM resources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Description, &res.HourlyRate, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *PGResourceRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ ResourceRepository = (*PGResourceRepository)(nil)
