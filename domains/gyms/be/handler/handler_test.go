package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitstack/gymgate/domains/gyms/be/service"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

type stubRepo struct {
	existing map[string]service.Gym
}

func (s stubRepo) List(context.Context) ([]service.Gym, error) { panic("unused") }
func (s stubRepo) ListKeys(context.Context) ([]string, error)  { panic("unused") }
func (s stubRepo) Create(context.Context, service.Gym) (service.Gym, error) {
	panic("unused")
}
func (s stubRepo) Get(context.Context, uuid.UUID) (service.Gym, error) { panic("unused") }
func (s stubRepo) FindByKey(_ context.Context, key string) (service.Gym, error) {
	g, ok := s.existing[key]
	if !ok {
		return service.Gym{}, service.ErrNotFound
	}
	return g, nil
}
func (s stubRepo) Update(context.Context, service.Gym) (service.Gym, error) { panic("unused") }
func (s stubRepo) Delete(context.Context, uuid.UUID) error                  { panic("unused") }

type stubProvisioner struct{}

func (stubProvisioner) EnsureDatabase(context.Context, string) error { return nil }
func (stubProvisioner) Attach(context.Context, string) error         { return nil }

func newTestHandler(repo stubRepo) *Handler {
	return New(service.New(repo, stubProvisioner{}), zap.NewNop())
}

func TestCreateDuplicateKeyReturnsConflict(t *testing.T) {
	repo := stubRepo{existing: map[string]service.Gym{
		"ironworks": {ID: uuid.New(), Key: "ironworks"},
	}}
	srv := httptest.NewServer(newTestHandler(repo).Routes())
	defer srv.Close()

	body := `{"name": "Ironworks", "key": "ironworks"}`
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestWriteErrorMapsInvalidKey(t *testing.T) {
	h := newTestHandler(stubRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	h.writeError(rec, req, fmt.Errorf("create gym: %w", tenant.ErrInvalidKey))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid gym key")
}

func TestWriteErrorMapsNotFound(t *testing.T) {
	h := newTestHandler(stubRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.writeError(rec, req, fmt.Errorf("get gym: %w", service.ErrNotFound))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
