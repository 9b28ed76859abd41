// Package web holds the shared HTTP response conventions: JSON bodies for
// success and RFC 7807 problem documents for failures.
package web

import (
	"encoding/json"
	"net/http"
)

// Problem type identifiers shared across domain handlers.
const (
	ProblemTypeValidation   = "https://fitstack.dev/problems/validation-error"
	ProblemTypeUnauthorized = "https://fitstack.dev/problems/unauthorized"
	ProblemTypeForbidden    = "https://fitstack.dev/problems/forbidden"
	ProblemTypeNotFound     = "https://fitstack.dev/problems/not-found"
	ProblemTypeConflict     = "https://fitstack.dev/problems/conflict"
	ProblemTypeUnknownGym   = "https://fitstack.dev/problems/unknown-gym"
	ProblemTypeInternal     = "https://fitstack.dev/problems/internal-error"
)

// Problem is an RFC 7807 problem details document.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// WriteJSON renders v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteProblem renders a problem document with the given status.
func WriteProblem(w http.ResponseWriter, status int, problemType, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}
