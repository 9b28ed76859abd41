package tenant

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handle is the resolved data-access capability for one gym, attached to the
// request context by middleware once the gym key has been resolved through
// the connection registry. Repositories accept a Handle rather than a raw
// key, so an unresolved gym can never reach the data-access layer.
type Handle struct {
	GymKey   string
	Database string
	Pool     *pgxpool.Pool
}

type ctxKey struct{}

// WithHandle returns a derived context carrying the gym Handle.
func WithHandle(ctx context.Context, h Handle) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext extracts the gym Handle and a boolean indicating presence.
func FromContext(ctx context.Context) (Handle, bool) {
	h, ok := ctx.Value(ctxKey{}).(Handle)
	return h, ok
}
