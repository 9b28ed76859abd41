package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitstack/gymgate/domains/accounts/be/service"
)

const uniqueViolation = "23505"

// PostgresRepository persists accounts in the control-plane database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a repository over the control-plane pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("accounts repo requires pool")
	}
	return &PostgresRepository{pool: pool}
}

const userColumns = "user_id, name, phone, email, is_staff, is_superuser, created_at, updated_at"

func (r *PostgresRepository) Create(ctx context.Context, u service.User, passwordHash string) (service.User, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO users (user_id, name, phone, email, password_hash, is_staff, is_superuser, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+userColumns,
		u.ID, u.Name, u.Phone, u.Email, passwordHash, u.IsStaff, u.IsSuperuser, u.CreatedAt, u.UpdatedAt,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return service.User{}, service.ErrEmailTaken
		}
		return service.User{}, err
	}
	return created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (service.User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id)
	return scanUser(row)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (service.User, string, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+", password_hash FROM users WHERE email = $1", email)

	var u service.User
	var hash string
	err := row.Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.User{}, "", service.ErrNotFound
		}
		return service.User{}, "", err
	}
	return u, hash, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]service.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []service.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (service.User, error) {
	var u service.User
	if err := row.Scan(&u.ID, &u.Name, &u.Phone, &u.Email, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.User{}, service.ErrNotFound
		}
		return service.User{}, err
	}
	return u, nil
}

var _ service.Repository = (*PostgresRepository)(nil)
