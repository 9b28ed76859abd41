package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type PostgresPayments struct{}

func NewPostgresPayments() *PostgresPayments { return &PostgresPayments{} }

// Amount stays a decimal string end to end; NUMERIC never touches float64.
const paymentColumns = "payment_id, member_id, amount::text, payment_date, payment_method, created_at, updated_at"

func (r *PostgresPayments) List(ctx context.Context, h tenant.Handle) ([]service.Payment, error) {
	rows, err := h.Pool.Query(ctx, "SELECT "+paymentColumns+" FROM payments ORDER BY payment_date DESC, created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []service.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PostgresPayments) Create(ctx context.Context, h tenant.Handle, p service.Payment) (service.Payment, error) {
	row := h.Pool.QueryRow(ctx, `
        INSERT INTO payments (payment_id, member_id, amount, payment_date, payment_method, created_at, updated_at)
        VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
        RETURNING `+paymentColumns,
		p.ID, p.MemberID, p.Amount, p.PaymentDate, p.PaymentMethod, p.CreatedAt, p.UpdatedAt,
	)
	created, err := scanPayment(row)
	if err != nil {
		return service.Payment{}, mapWriteError(err)
	}
	return created, nil
}

func (r *PostgresPayments) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (service.Payment, error) {
	row := h.Pool.QueryRow(ctx, "SELECT "+paymentColumns+" FROM payments WHERE payment_id = $1", id)
	return scanPayment(row)
}

func (r *PostgresPayments) Update(ctx context.Context, h tenant.Handle, p service.Payment) (service.Payment, error) {
	row := h.Pool.QueryRow(ctx, `
        UPDATE payments
        SET member_id = $2, amount = $3::numeric, payment_date = $4, payment_method = $5, updated_at = $6
        WHERE payment_id = $1
        RETURNING `+paymentColumns,
		p.ID, p.MemberID, p.Amount, p.PaymentDate, p.PaymentMethod, p.UpdatedAt,
	)
	updated, err := scanPayment(row)
	if err != nil {
		return service.Payment{}, mapWriteError(err)
	}
	return updated, nil
}

func (r *PostgresPayments) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	tag, err := h.Pool.Exec(ctx, "DELETE FROM payments WHERE payment_id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (service.Payment, error) {
	var p service.Payment
	err := row.Scan(&p.ID, &p.MemberID, &p.Amount, &p.PaymentDate, &p.PaymentMethod, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.Payment{}, service.ErrNotFound
		}
		return service.Payment{}, err
	}
	return p, nil
}

var _ service.PaymentsRepository = (*PostgresPayments)(nil)
