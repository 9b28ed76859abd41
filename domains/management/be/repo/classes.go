package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type PostgresClasses struct{}

func NewPostgresClasses() *PostgresClasses { return &PostgresClasses{} }

// TIME columns travel as text; Postgres casts the bound strings back on write.
const classColumns = "class_id, name, trainer_id, member_id, start_time::text, end_time::text, created_at, updated_at"

func (r *PostgresClasses) List(ctx context.Context, h tenant.Handle) ([]service.GymClass, error) {
	rows, err := h.Pool.Query(ctx, "SELECT "+classColumns+" FROM classes ORDER BY start_time, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []service.GymClass
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *PostgresClasses) Create(ctx context.Context, h tenant.Handle, c service.GymClass) (service.GymClass, error) {
	row := h.Pool.QueryRow(ctx, `
        INSERT INTO classes (class_id, name, trainer_id, member_id, start_time, end_time, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8)
        RETURNING `+classColumns,
		c.ID, c.Name, c.TrainerID, c.MemberID, c.StartTime, c.EndTime, c.CreatedAt, c.UpdatedAt,
	)
	created, err := scanClass(row)
	if err != nil {
		return service.GymClass{}, mapWriteError(err)
	}
	return created, nil
}

func (r *PostgresClasses) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (service.GymClass, error) {
	row := h.Pool.QueryRow(ctx, "SELECT "+classColumns+" FROM classes WHERE class_id = $1", id)
	return scanClass(row)
}

func (r *PostgresClasses) Update(ctx context.Context, h tenant.Handle, c service.GymClass) (service.GymClass, error) {
	row := h.Pool.QueryRow(ctx, `
        UPDATE classes
        SET name = $2, trainer_id = $3, member_id = $4, start_time = $5::time, end_time = $6::time, updated_at = $7
        WHERE class_id = $1
        RETURNING `+classColumns,
		c.ID, c.Name, c.TrainerID, c.MemberID, c.StartTime, c.EndTime, c.UpdatedAt,
	)
	updated, err := scanClass(row)
	if err != nil {
		return service.GymClass{}, mapWriteError(err)
	}
	return updated, nil
}

func (r *PostgresClasses) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	tag, err := h.Pool.Exec(ctx, "DELETE FROM classes WHERE class_id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanClass(row pgx.Row) (service.GymClass, error) {
	var c service.GymClass
	err := row.Scan(&c.ID, &c.Name, &c.TrainerID, &c.MemberID, &c.StartTime, &c.EndTime, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.GymClass{}, service.ErrNotFound
		}
		return service.GymClass{}, err
	}
	return c, nil
}

var _ service.ClassesRepository = (*PostgresClasses)(nil)
