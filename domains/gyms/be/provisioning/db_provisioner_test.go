package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitstack/gymgate/platform/go/persistence"
	"github.com/fitstack/gymgate/platform/go/persistence/pgtest"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

func newTestProvisioner(t *testing.T) (*DBProvisioner, *persistence.Registry) {
	t.Helper()

	settings, maintenanceDB := pgtest.Server(t)
	admin, err := persistence.NewPool(context.Background(), persistence.PoolConfig{
		ConnString: settings.URL(maintenanceDB),
	})
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	registry := persistence.NewRegistry()
	t.Cleanup(registry.Close)

	prov := NewDBProvisioner(Config{
		Admin:    admin,
		Registry: registry,
		Settings: settings,
		Logger:   zap.NewNop(),
	})
	return prov, registry
}

func databaseExists(t *testing.T, prov *DBProvisioner, name string) bool {
	t.Helper()
	var one int
	err := prov.admin.QueryRow(context.Background(),
		"SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1", name).Scan(&one)
	if err != nil {
		return false
	}
	return one == 1
}

func TestEnsureDatabaseIdempotent(t *testing.T) {
	prov, _ := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, prov.EnsureDatabase(ctx, "prov_alpha"))
	require.True(t, databaseExists(t, prov, "prov_alpha_db"))

	// second run is a no-op, not an error
	require.NoError(t, prov.EnsureDatabase(ctx, "prov_alpha"))
}

func TestEnsureDatabaseRejectsInvalidKey(t *testing.T) {
	prov, _ := newTestProvisioner(t)

	require.Error(t, prov.EnsureDatabase(context.Background(), "Drop-Table"))
}

func TestAttachRegistersAndMigrates(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, prov.EnsureDatabase(ctx, "prov_beta"))
	require.NoError(t, prov.Attach(ctx, "prov_beta"))

	entry, err := registry.Resolve("prov_beta")
	require.NoError(t, err)
	require.Equal(t, "prov_beta_db", entry.Database)

	// migrated schema is queryable through the registered pool
	var count int
	require.NoError(t, entry.Pool.QueryRow(ctx, "SELECT count(*) FROM members").Scan(&count))
	require.Zero(t, count)

	// attach is repeatable; the entry stays resolvable
	require.NoError(t, prov.Attach(ctx, "prov_beta"))
	_, err = registry.Resolve("prov_beta")
	require.NoError(t, err)
}

func TestAttachMissingDatabaseKeepsRegistration(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	// no EnsureDatabase: the target database does not exist, so migration is
	// deferred, but the gym must still be resolvable for later retries
	require.NoError(t, prov.Attach(ctx, "prov_ghost"))

	_, err := registry.Resolve("prov_ghost")
	require.NoError(t, err)
}

func TestTwoGymsAreIsolated(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	for _, key := range []string{"prov_east", "prov_west"} {
		require.NoError(t, prov.EnsureDatabase(ctx, key))
		require.NoError(t, prov.Attach(ctx, key))
	}

	east, err := registry.Resolve("prov_east")
	require.NoError(t, err)
	west, err := registry.Resolve("prov_west")
	require.NoError(t, err)

	// identical emails in different gyms never collide: separate databases
	const insert = `
        INSERT INTO members (member_id, first_name, last_name, email, membership_start, membership_end)
        VALUES (gen_random_uuid(), 'Ada', 'Lovelace', 'ada@example.com', '2026-01-01', '2026-12-31')`
	_, err = east.Pool.Exec(ctx, insert)
	require.NoError(t, err)
	_, err = west.Pool.Exec(ctx, insert)
	require.NoError(t, err)

	var eastCount, westCount int
	require.NoError(t, east.Pool.QueryRow(ctx, "SELECT count(*) FROM members").Scan(&eastCount))
	require.NoError(t, west.Pool.QueryRow(ctx, "SELECT count(*) FROM members").Scan(&westCount))
	require.Equal(t, 1, eastCount)
	require.Equal(t, 1, westCount)
}

func TestReattachReusesLivePool(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, prov.EnsureDatabase(ctx, "prov_reuse"))
	require.NoError(t, prov.Attach(ctx, "prov_reuse"))
	first, err := registry.Resolve("prov_reuse")
	require.NoError(t, err)

	require.NoError(t, prov.Attach(ctx, "prov_reuse"))
	second, err := registry.Resolve("prov_reuse")
	require.NoError(t, err)
	require.Same(t, first.Pool, second.Pool)

	// a handle held across the re-attach still serves queries
	var one int
	require.NoError(t, first.Pool.QueryRow(ctx, "SELECT 1").Scan(&one))
	require.Equal(t, 1, one)
}

func TestLoaderAttachesKnownGyms(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, prov.EnsureDatabase(ctx, "prov_loader"))

	source := staticKeySource{keys: []string{"prov_loader"}}
	loader := NewLoader(source, prov, zap.NewNop())

	require.NoError(t, loader.LoadAll(ctx))
	entry, err := registry.Resolve("prov_loader")
	require.NoError(t, err)
	require.Equal(t, tenant.DatabaseName("prov_loader"), entry.Database)
}

func TestLoaderSkipsFailingGym(t *testing.T) {
	prov, registry := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, prov.EnsureDatabase(ctx, "prov_survivor"))

	// the malformed key makes Attach fail; the gym listed after it must
	// still come up
	source := staticKeySource{keys: []string{"Bad-Key", "prov_survivor"}}
	loader := NewLoader(source, prov, zap.NewNop())

	require.NoError(t, loader.LoadAll(ctx))

	_, err := registry.Resolve("Bad-Key")
	require.ErrorIs(t, err, persistence.ErrGymNotRegistered)

	entry, err := registry.Resolve("prov_survivor")
	require.NoError(t, err)
	require.Equal(t, "prov_survivor_db", entry.Database)
}

func TestLoaderContinuesPastFailures(t *testing.T) {
	attacher := &recordingAttacher{failing: map[string]bool{"gym_a": true, "gym_b": true}}
	source := staticKeySource{keys: []string{"gym_a", "gym_b", "gym_c", "gym_d"}}
	loader := NewLoader(source, attacher, zap.NewNop())

	require.NoError(t, loader.LoadAll(context.Background()))
	require.Equal(t, []string{"gym_c", "gym_d"}, attacher.attached)
}

func TestLoaderAbortsWhenListFails(t *testing.T) {
	attacher := &recordingAttacher{}
	loader := NewLoader(failingKeySource{}, attacher, zap.NewNop())

	require.Error(t, loader.LoadAll(context.Background()))
	require.Empty(t, attacher.attached)
}

type staticKeySource struct {
	keys []string
}

func (s staticKeySource) ListKeys(ctx context.Context) ([]string, error) {
	return s.keys, nil
}

type failingKeySource struct{}

func (failingKeySource) ListKeys(ctx context.Context) ([]string, error) {
	return nil, errors.New("gyms table unreadable")
}

type recordingAttacher struct {
	failing  map[string]bool
	attached []string
}

func (a *recordingAttacher) Attach(ctx context.Context, gymKey string) error {
	if a.failing[gymKey] {
		return errors.New("connection refused")
	}
	a.attached = append(a.attached, gymKey)
	return nil
}
