package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

// PostgresMembers runs member queries against whichever gym database the
// resolved handle points at. The struct is stateless; every method takes a
// tenant.Handle.
type PostgresMembers struct{}

func NewPostgresMembers() *PostgresMembers { return &PostgresMembers{} }

const memberColumns = "member_id, first_name, last_name, email, phone_number, membership_start, membership_end, created_at, updated_at"

func (r *PostgresMembers) List(ctx context.Context, h tenant.Handle) ([]service.Member, error) {
	rows, err := h.Pool.Query(ctx, "SELECT "+memberColumns+" FROM members ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []service.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *PostgresMembers) Create(ctx context.Context, h tenant.Handle, m service.Member) (service.Member, error) {
	row := h.Pool.QueryRow(ctx, `
        INSERT INTO members (member_id, first_name, last_name, email, phone_number, membership_start, membership_end, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+memberColumns,
		m.ID, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.MembershipStart, m.MembershipEnd, m.CreatedAt, m.UpdatedAt,
	)
	created, err := scanMember(row)
	if err != nil {
		return service.Member{}, mapWriteError(err)
	}
	return created, nil
}

func (r *PostgresMembers) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (service.Member, error) {
	row := h.Pool.QueryRow(ctx, "SELECT "+memberColumns+" FROM members WHERE member_id = $1", id)
	return scanMember(row)
}

func (r *PostgresMembers) Update(ctx context.Context, h tenant.Handle, m service.Member) (service.Member, error) {
	row := h.Pool.QueryRow(ctx, `
        UPDATE members
        SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
            membership_start = $6, membership_end = $7, updated_at = $8
        WHERE member_id = $1
        RETURNING `+memberColumns,
		m.ID, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.MembershipStart, m.MembershipEnd, m.UpdatedAt,
	)
	updated, err := scanMember(row)
	if err != nil {
		return service.Member{}, mapWriteError(err)
	}
	return updated, nil
}

func (r *PostgresMembers) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	tag, err := h.Pool.Exec(ctx, "DELETE FROM members WHERE member_id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (service.Member, error) {
	var m service.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber,
		&m.MembershipStart, &m.MembershipEnd, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.Member{}, service.ErrNotFound
		}
		return service.Member{}, err
	}
	return m, nil
}

var _ service.MembersRepository = (*PostgresMembers)(nil)
