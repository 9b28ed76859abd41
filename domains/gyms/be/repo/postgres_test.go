package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/fitstack/gymgate/domains/gyms/be/service"
	"github.com/fitstack/gymgate/platform/go/persistence"
	"github.com/fitstack/gymgate/platform/go/persistence/pgtest"
)

func controlPlane(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool := pgtest.Pool(t)
	require.NoError(t, persistence.BootstrapControlPlane(context.Background(), pool))
	return pool
}

func seedAdmin(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
        INSERT INTO users (user_id, name, email, password_hash, is_staff)
        VALUES ($1, 'Admin', $2, 'x', TRUE)`,
		id, "admin-"+id.String()[:8]+"@example.com")
	require.NoError(t, err)
	return id
}

func newGym(adminID uuid.UUID, key string) service.Gym {
	now := time.Now().UTC()
	return service.Gym{
		ID:        uuid.New(),
		Name:      "Ironworks",
		Key:       key,
		AdminID:   adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func uniqueKey(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func TestGymCRUD(t *testing.T) {
	pool := controlPlane(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	adminID := seedAdmin(t, pool)
	key := uniqueKey("gym")

	created, err := repo.Create(ctx, newGym(adminID, key))
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, key, got.Key)
	require.Equal(t, adminID, got.AdminID)

	byKey, err := repo.FindByKey(ctx, key)
	require.NoError(t, err)
	require.Equal(t, created.ID, byKey.ID)

	got.Name = "Ironworks East"
	got.UpdatedAt = time.Now().UTC()
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	require.Equal(t, "Ironworks East", updated.Name)

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	require.Contains(t, keys, key)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.Get(ctx, created.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestGymDuplicateKey(t *testing.T) {
	pool := controlPlane(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	adminID := seedAdmin(t, pool)
	key := uniqueKey("dupgym")

	_, err := repo.Create(ctx, newGym(adminID, key))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newGym(adminID, key))
	require.ErrorIs(t, err, service.ErrConflictKey)
}

func TestGymDeleteMissing(t *testing.T) {
	pool := controlPlane(t)
	repo := NewPostgresRepository(pool)

	err := repo.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrNotFound)
}
