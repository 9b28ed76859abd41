package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitstack/gymgate/domains/gyms/be/service"
)

const uniqueViolation = "23505"

// PostgresRepository persists gym metadata in the control-plane database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a repository over the control-plane pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("gyms repo requires pool")
	}
	return &PostgresRepository{pool: pool}
}

const gymColumns = "gym_id, name, gym_key, admin_id, created_at, updated_at"

func (r *PostgresRepository) List(ctx context.Context) ([]service.Gym, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+gymColumns+" FROM gyms ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gyms []service.Gym
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}
	return gyms, rows.Err()
}

func (r *PostgresRepository) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT gym_key FROM gyms ORDER BY gym_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, g service.Gym) (service.Gym, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO gyms (gym_id, name, gym_key, admin_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+gymColumns,
		g.ID, g.Name, g.Key, g.AdminID, g.CreatedAt, g.UpdatedAt,
	)
	created, err := scanGym(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.Gym{}, service.ErrConflictKey
		}
		return service.Gym{}, err
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (service.Gym, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+gymColumns+" FROM gyms WHERE gym_id = $1", id)
	return scanGym(row)
}

func (r *PostgresRepository) FindByKey(ctx context.Context, key string) (service.Gym, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+gymColumns+" FROM gyms WHERE gym_key = $1", key)
	return scanGym(row)
}

func (r *PostgresRepository) Update(ctx context.Context, g service.Gym) (service.Gym, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE gyms SET name = $2, updated_at = $3
        WHERE gym_id = $1
        RETURNING `+gymColumns,
		g.ID, g.Name, g.UpdatedAt,
	)
	return scanGym(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM gyms WHERE gym_id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanGym(row pgx.Row) (service.Gym, error) {
	var g service.Gym
	if err := row.Scan(&g.ID, &g.Name, &g.Key, &g.AdminID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.Gym{}, service.ErrNotFound
		}
		return service.Gym{}, err
	}
	return g, nil
}

var _ service.Repository = (*PostgresRepository)(nil)
