package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fitstack/gymgate/platform/go/web"
)

// RequireAuth verifies the bearer token and attaches the caller Principal to
// the context. Missing or invalid credentials yield a 401 problem document.
func RequireAuth(issuer *Issuer) func(http.Handler) http.Handler {
	if issuer == nil {
		panic("auth middleware: issuer is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, found := ExtractBearerToken(r)
			if !found {
				web.WriteProblem(w, http.StatusUnauthorized, web.ProblemTypeUnauthorized,
					"Unauthorized", "bearer token required")
				return
			}

			claims, err := issuer.Verify(tokenString, UseAccess)
			if err != nil {
				web.WriteProblem(w, http.StatusUnauthorized, web.ProblemTypeUnauthorized,
					"Unauthorized", "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				web.WriteProblem(w, http.StatusUnauthorized, web.ProblemTypeUnauthorized,
					"Unauthorized", "invalid token subject")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:  userID,
				Email:   claims.Email,
				IsStaff: claims.IsStaff,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects callers without the staff flag. Must run after
// RequireAuth.
func RequireStaff() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				web.WriteProblem(w, http.StatusUnauthorized, web.ProblemTypeUnauthorized,
					"Unauthorized", "authentication required")
				return
			}
			if !p.IsStaff {
				web.WriteProblem(w, http.StatusForbidden, web.ProblemTypeForbidden,
					"Forbidden", "staff access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
