package middleware

import (
	"net/http"

	"github.com/fitstack/gymgate/platform/go/metrics"
	"github.com/fitstack/gymgate/platform/go/persistence"
	"github.com/fitstack/gymgate/platform/go/tenant"
	"github.com/fitstack/gymgate/platform/go/web"
)

// QueryParam is the request parameter naming the gym to operate against.
// Every tenant-scoped call must carry it explicitly.
const QueryParam = "gym"

// Resolver is the minimal lookup capability required to route a request to a
// gym database. Implemented by the connection registry.
type Resolver interface {
	Resolve(gymKey string) (persistence.ConnEntry, error)
}

// WithGymHandle resolves the gym key from the request query, looks it up in
// the connection registry, and attaches a tenant.Handle to the context.
// Unknown keys are rejected with a structured 404 before any data access can
// run; there is no fallback to the control-plane database.
func WithGymHandle(resolver Resolver) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("gym middleware: resolver is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Query().Get(QueryParam)
			if err := tenant.ValidateKey(key); err != nil {
				web.WriteProblem(w, http.StatusBadRequest, web.ProblemTypeValidation,
					"Invalid gym key", err.Error())
				return
			}

			entry, err := resolver.Resolve(key)
			if err != nil {
				metrics.ResolveTotal.WithLabelValues("miss").Inc()
				web.WriteProblem(w, http.StatusNotFound, web.ProblemTypeUnknownGym,
					"Unknown gym", "gym "+key+" is not registered")
				return
			}
			metrics.ResolveTotal.WithLabelValues("hit").Inc()

			ctx := tenant.WithHandle(r.Context(), tenant.Handle{
				GymKey:   entry.GymKey,
				Database: entry.Database,
				Pool:     entry.Pool,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
