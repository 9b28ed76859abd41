package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type PostgresTrainers struct{}

func NewPostgresTrainers() *PostgresTrainers { return &PostgresTrainers{} }

const trainerColumns = "trainer_id, name, specialty, email, phone_number, created_at, updated_at"

func (r *PostgresTrainers) List(ctx context.Context, h tenant.Handle) ([]service.Trainer, error) {
	rows, err := h.Pool.Query(ctx, "SELECT "+trainerColumns+" FROM trainers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainers []service.Trainer
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}

func (r *PostgresTrainers) Create(ctx context.Context, h tenant.Handle, t service.Trainer) (service.Trainer, error) {
	row := h.Pool.QueryRow(ctx, `
        INSERT INTO trainers (trainer_id, name, specialty, email, phone_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+trainerColumns,
		t.ID, t.Name, t.Specialty, t.Email, t.PhoneNumber, t.CreatedAt, t.UpdatedAt,
	)
	created, err := scanTrainer(row)
	if err != nil {
		return service.Trainer{}, mapWriteError(err)
	}
	return created, nil
}

func (r *PostgresTrainers) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (service.Trainer, error) {
	row := h.Pool.QueryRow(ctx, "SELECT "+trainerColumns+" FROM trainers WHERE trainer_id = $1", id)
	return scanTrainer(row)
}

func (r *PostgresTrainers) Update(ctx context.Context, h tenant.Handle, t service.Trainer) (service.Trainer, error) {
	row := h.Pool.QueryRow(ctx, `
        UPDATE trainers
        SET name = $2, specialty = $3, email = $4, phone_number = $5, updated_at = $6
        WHERE trainer_id = $1
        RETURNING `+trainerColumns,
		t.ID, t.Name, t.Specialty, t.Email, t.PhoneNumber, t.UpdatedAt,
	)
	updated, err := scanTrainer(row)
	if err != nil {
		return service.Trainer{}, mapWriteError(err)
	}
	return updated, nil
}

func (r *PostgresTrainers) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	tag, err := h.Pool.Exec(ctx, "DELETE FROM trainers WHERE trainer_id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanTrainer(row pgx.Row) (service.Trainer, error) {
	var t service.Trainer
	err := row.Scan(&t.ID, &t.Name, &t.Specialty, &t.Email, &t.PhoneNumber, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.Trainer{}, service.ErrNotFound
		}
		return service.Trainer{}, err
	}
	return t, nil
}

var _ service.TrainersRepository = (*PostgresTrainers)(nil)
