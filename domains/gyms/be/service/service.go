package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fitstack/gymgate/platform/go/tenant"
)

// Domain sentinel errors.
var (
	ErrNotFound    = errors.New("gym not found")
	ErrConflictKey = errors.New("gym key already exists")
)

// Gym represents the control-plane registry entry for one gym.
type Gym struct {
	ID        uuid.UUID
	Name      string
	Key       string
	AdminID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput represents the request to create a gym.
type CreateInput struct {
	Name    string
	Key     string
	AdminID uuid.UUID
}

// UpdateInput represents mutable fields for a gym. The key is immutable: it
// names the physical database and renaming would orphan it.
type UpdateInput struct {
	Name *string
}

// Repository abstracts control-plane persistence for gyms.
type Repository interface {
	List(ctx context.Context) ([]Gym, error)
	ListKeys(ctx context.Context) ([]string, error)
	Create(ctx context.Context, g Gym) (Gym, error)
	Get(ctx context.Context, id uuid.UUID) (Gym, error)
	FindByKey(ctx context.Context, key string) (Gym, error)
	Update(ctx context.Context, g Gym) (Gym, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Provisioner encapsulates creation and attachment of a gym's physical
// database. EnsureDatabase is idempotent and fatal on failure; Attach
// registers the connection entry and applies migrations, swallowing
// transient connection failures internally.
type Provisioner interface {
	EnsureDatabase(ctx context.Context, gymKey string) error
	Attach(ctx context.Context, gymKey string) error
}

// Service provides gym registry operations and orchestrates provisioning as
// an explicit two-step workflow: ensure the physical database exists, persist
// the metadata row, then attach (register + migrate). Provisioning is never a
// hidden side effect of saving a row.
type Service struct {
	repo Repository
	prov Provisioner
}

// New constructs a Service with required dependencies.
func New(repo Repository, prov Provisioner) *Service {
	if repo == nil {
		panic("gyms repo is required")
	}
	if prov == nil {
		panic("gyms provisioner is required")
	}
	return &Service{repo: repo, prov: prov}
}

// List returns all gyms.
func (s *Service) List(ctx context.Context) ([]Gym, error) {
	return s.repo.List(ctx)
}

// Get returns a gym by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Gym, error) {
	return s.repo.Get(ctx, id)
}

// Create provisions and registers a new gym. The database is created before
// the metadata row is written so no row can ever reference a database that
// does not exist; a creation failure aborts the whole operation.
func (s *Service) Create(ctx context.Context, input CreateInput) (Gym, error) {
	if err := tenant.ValidateKey(input.Key); err != nil {
		return Gym{}, err
	}

	if _, err := s.repo.FindByKey(ctx, input.Key); err == nil {
		return Gym{}, ErrConflictKey
	} else if !errors.Is(err, ErrNotFound) {
		return Gym{}, err
	}

	if err := s.prov.EnsureDatabase(ctx, input.Key); err != nil {
		return Gym{}, fmt.Errorf("create gym database: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, Gym{
		ID:        uuid.New(),
		Name:      input.Name,
		Key:       input.Key,
		AdminID:   input.AdminID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Gym{}, err
	}

	// Attach swallows transient connection/migration failures; the gym stays
	// registered and is retried on the next startup pass or explicit
	// re-provision call.
	if err := s.prov.Attach(ctx, created.Key); err != nil {
		return Gym{}, fmt.Errorf("attach gym database: %w", err)
	}

	return created, nil
}

// Provision re-runs full provisioning for an existing gym. Idempotent:
// re-provisioning never creates a second database and never fails because
// the database already exists.
func (s *Service) Provision(ctx context.Context, id uuid.UUID) (Gym, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return Gym{}, err
	}
	if err := s.prov.EnsureDatabase(ctx, g.Key); err != nil {
		return Gym{}, fmt.Errorf("create gym database: %w", err)
	}
	if err := s.prov.Attach(ctx, g.Key); err != nil {
		return Gym{}, fmt.Errorf("attach gym database: %w", err)
	}
	return g, nil
}

// Update modifies mutable gym fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Gym, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Gym{}, err
	}

	next := current
	if input.Name != nil {
		next.Name = *input.Name
	}
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, next)
}

// Delete removes the gym metadata row. The physical database and its
// registry entry are retained: dropping tenant data is an operator decision,
// not an API side effect.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
