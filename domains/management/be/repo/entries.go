package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fitstack/gymgate/domains/management/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type PostgresEntries struct{}

func NewPostgresEntries() *PostgresEntries { return &PostgresEntries{} }

const entryColumns = "entry_id, member_id, entry_time, exit_time"

func (r *PostgresEntries) List(ctx context.Context, h tenant.Handle) ([]service.MemberEntry, error) {
	rows, err := h.Pool.Query(ctx, "SELECT "+entryColumns+" FROM member_entries ORDER BY entry_time DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []service.MemberEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresEntries) Create(ctx context.Context, h tenant.Handle, e service.MemberEntry) (service.MemberEntry, error) {
	row := h.Pool.QueryRow(ctx, `
        INSERT INTO member_entries (entry_id, member_id, entry_time)
        VALUES ($1, $2, $3)
        RETURNING `+entryColumns,
		e.ID, e.MemberID, e.EntryTime,
	)
	created, err := scanEntry(row)
	if err != nil {
		return service.MemberEntry{}, mapWriteError(err)
	}
	return created, nil
}

func (r *PostgresEntries) Get(ctx context.Context, h tenant.Handle, id uuid.UUID) (service.MemberEntry, error) {
	row := h.Pool.QueryRow(ctx, "SELECT "+entryColumns+" FROM member_entries WHERE entry_id = $1", id)
	return scanEntry(row)
}

func (r *PostgresEntries) Update(ctx context.Context, h tenant.Handle, e service.MemberEntry) (service.MemberEntry, error) {
	row := h.Pool.QueryRow(ctx, `
        UPDATE member_entries SET exit_time = $2
        WHERE entry_id = $1
        RETURNING `+entryColumns,
		e.ID, e.ExitTime,
	)
	updated, err := scanEntry(row)
	if err != nil {
		return service.MemberEntry{}, mapWriteError(err)
	}
	return updated, nil
}

func (r *PostgresEntries) Delete(ctx context.Context, h tenant.Handle, id uuid.UUID) error {
	tag, err := h.Pool.Exec(ctx, "DELETE FROM member_entries WHERE entry_id = $1", id)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func scanEntry(row pgx.Row) (service.MemberEntry, error) {
	var e service.MemberEntry
	err := row.Scan(&e.ID, &e.MemberID, &e.EntryTime, &e.ExitTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.MemberEntry{}, service.ErrNotFound
		}
		return service.MemberEntry{}, err
	}
	return e, nil
}

var _ service.EntriesRepository = (*PostgresEntries)(nil)
