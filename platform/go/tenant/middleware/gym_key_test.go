package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitstack/gymgate/platform/go/persistence"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type stubResolver struct {
	entries map[string]persistence.ConnEntry
}

func (s stubResolver) Resolve(gymKey string) (persistence.ConnEntry, error) {
	entry, ok := s.entries[gymKey]
	if !ok {
		return persistence.ConnEntry{}, persistence.ErrGymNotRegistered
	}
	return entry, nil
}

func newTestServer(resolver Resolver, captured *tenant.Handle) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := tenant.FromContext(r.Context())
		if ok && captured != nil {
			*captured = h
		}
		w.WriteHeader(http.StatusOK)
	})
	return WithGymHandle(resolver)(next)
}

func TestWithGymHandleMissingParam(t *testing.T) {
	srv := newTestServer(stubResolver{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestWithGymHandleInvalidKey(t *testing.T) {
	srv := newTestServer(stubResolver{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members?gym=Not-Valid", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithGymHandleUnknownGym(t *testing.T) {
	srv := newTestServer(stubResolver{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members?gym=ghost_gym", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "unknown-gym")
	require.Contains(t, rec.Body.String(), "ghost_gym")
}

func TestWithGymHandleAttachesHandle(t *testing.T) {
	resolver := stubResolver{entries: map[string]persistence.ConnEntry{
		"ironworks": {GymKey: "ironworks", Database: "ironworks_db"},
	}}

	var captured tenant.Handle
	srv := newTestServer(resolver, &captured)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members?gym=ironworks", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ironworks", captured.GymKey)
	require.Equal(t, "ironworks_db", captured.Database)
}

func TestWithGymHandleRequiresResolver(t *testing.T) {
	require.Panics(t, func() {
		WithGymHandle(nil)
	})
}
