package repo

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitstack/gymgate/domains/management/be/service"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapWriteError translates Postgres constraint violations into domain
// sentinels. Unique constraints in gym schemas only cover email columns.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return service.ErrDuplicateEmail
		case foreignKeyViolation:
			return service.ErrInvalidReference
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}
	return err
}
