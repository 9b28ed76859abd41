package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsStaff bool
}

type ctxKey struct{}

// WithPrincipal returns a derived context carrying the authenticated caller.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext extracts the caller and a boolean indicating presence.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
