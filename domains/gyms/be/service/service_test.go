package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/gymgate/platform/go/tenant"
)

// inMemoryRepo is a minimal in-memory impl of Repository for tests.
type inMemoryRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]Gym
}

func newInMemoryRepo() *inMemoryRepo {
	return &inMemoryRepo{data: make(map[uuid.UUID]Gym)}
}

func (r *inMemoryRepo) List(ctx context.Context) ([]Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gyms := make([]Gym, 0, len(r.data))
	for _, g := range r.data {
		gyms = append(gyms, g)
	}
	return gyms, nil
}

func (r *inMemoryRepo) ListKeys(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.data))
	for _, g := range r.data {
		keys = append(keys, g.Key)
	}
	return keys, nil
}

func (r *inMemoryRepo) Create(ctx context.Context, g Gym) (Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.Key == g.Key {
			return Gym{}, ErrConflictKey
		}
	}
	r.data[g.ID] = g
	return g, nil
}

func (r *inMemoryRepo) Get(ctx context.Context, id uuid.UUID) (Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.data[id]
	if !ok {
		return Gym{}, ErrNotFound
	}
	return g, nil
}

func (r *inMemoryRepo) FindByKey(ctx context.Context, key string) (Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.data {
		if g.Key == key {
			return g, nil
		}
	}
	return Gym{}, ErrNotFound
}

func (r *inMemoryRepo) Update(ctx context.Context, g Gym) (Gym, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[g.ID]; !ok {
		return Gym{}, ErrNotFound
	}
	r.data[g.ID] = g
	return g, nil
}

func (r *inMemoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// stubProvisioner records calls and returns scripted errors.
type stubProvisioner struct {
	ensureErr error
	attachErr error

	ensured  []string
	attached []string
}

func (s *stubProvisioner) EnsureDatabase(ctx context.Context, gymKey string) error {
	s.ensured = append(s.ensured, gymKey)
	return s.ensureErr
}

func (s *stubProvisioner) Attach(ctx context.Context, gymKey string) error {
	s.attached = append(s.attached, gymKey)
	return s.attachErr
}

func TestCreateProvisionsBeforePersisting(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{}
	svc := New(repo, prov)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:    "Ironworks",
		Key:     "ironworks",
		AdminID: uuid.New(),
	})
	require.NoError(t, err)
	require.Equal(t, "ironworks", created.Key)
	require.NotEqual(t, uuid.Nil, created.ID)

	require.Equal(t, []string{"ironworks"}, prov.ensured)
	require.Equal(t, []string{"ironworks"}, prov.attached)

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Key, stored.Key)
}

func TestCreateRejectsInvalidKey(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{}
	svc := New(repo, prov)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Bad", Key: "Not-Valid"})
	require.ErrorIs(t, err, tenant.ErrInvalidKey)
	require.Empty(t, prov.ensured)
	require.Empty(t, repo.data)
}

func TestCreateDatabaseFailureAbortsAll(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{ensureErr: errors.New("permission denied to create database")}
	svc := New(repo, prov)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Ironworks", Key: "ironworks"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "create gym database")

	// no metadata row and no attach when the database cannot be created
	require.Empty(t, repo.data)
	require.Empty(t, prov.attached)
}

func TestCreateDuplicateKeyConflicts(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{}
	svc := New(repo, prov)

	_, err := svc.Create(context.Background(), CreateInput{Name: "First", Key: "ironworks"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "Second", Key: "ironworks"})
	require.ErrorIs(t, err, ErrConflictKey)

	// the conflicting request never reached the provisioner
	require.Equal(t, []string{"ironworks"}, prov.ensured)
}

func TestProvisionIsIdempotent(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{}
	svc := New(repo, prov)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Ironworks", Key: "ironworks"})
	require.NoError(t, err)

	_, err = svc.Provision(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = svc.Provision(context.Background(), created.ID)
	require.NoError(t, err)

	require.Equal(t, []string{"ironworks", "ironworks", "ironworks"}, prov.ensured)
}

func TestProvisionUnknownGym(t *testing.T) {
	svc := New(newInMemoryRepo(), &stubProvisioner{})

	_, err := svc.Provision(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateChangesNameOnly(t *testing.T) {
	repo := newInMemoryRepo()
	svc := New(repo, &stubProvisioner{})

	created, err := svc.Create(context.Background(), CreateInput{Name: "Old Name", Key: "ironworks"})
	require.NoError(t, err)

	newName := "New Name"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, "ironworks", updated.Key)
}

func TestDeleteRemovesMetadataOnly(t *testing.T) {
	repo := newInMemoryRepo()
	prov := &stubProvisioner{}
	svc := New(repo, prov)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Ironworks", Key: "ironworks"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewValidatesDeps(t *testing.T) {
	require.Panics(t, func() { New(nil, &stubProvisioner{}) })
	require.Panics(t, func() { New(newInMemoryRepo(), nil) })
}
