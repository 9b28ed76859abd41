package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fitstack/gymgate/domains/gyms/be/service"
	"github.com/fitstack/gymgate/platform/go/metrics"
	"github.com/fitstack/gymgate/platform/go/persistence"
	"github.com/fitstack/gymgate/platform/go/tenant"
)

// DefaultTimeout bounds database creation and migration so one slow
// provisioning attempt cannot hang a request indefinitely.
const DefaultTimeout = 30 * time.Second

// DBProvisioner creates per-gym physical databases, registers their
// connection entries and applies the gym-entity schema.
type DBProvisioner struct {
	admin    *pgxpool.Pool
	registry *persistence.Registry
	settings persistence.ConnSettings
	logger   *zap.Logger
	timeout  time.Duration
}

// Config wires the provisioner. Admin is the privileged control-plane pool
// used only to check for and create physical databases.
type Config struct {
	Admin    *pgxpool.Pool
	Registry *persistence.Registry
	Settings persistence.ConnSettings
	Logger   *zap.Logger
	Timeout  time.Duration
}

// NewDBProvisioner constructs a DBProvisioner.
func NewDBProvisioner(cfg Config) *DBProvisioner {
	if cfg.Admin == nil {
		panic("db provisioner requires admin pool")
	}
	if cfg.Registry == nil {
		panic("db provisioner requires registry")
	}
	if cfg.Logger == nil {
		panic("db provisioner requires logger")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DBProvisioner{
		admin:    cfg.Admin,
		registry: cfg.Registry,
		settings: cfg.Settings,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// EnsureDatabase creates the gym's physical database if absent. Idempotent:
// re-provisioning an existing gym is a no-op for this step. Any failure here
// is fatal to the caller, since no database would exist to operate against.
func (p *DBProvisioner) EnsureDatabase(ctx context.Context, gymKey string) error {
	if err := tenant.ValidateKey(gymKey); err != nil {
		return err
	}
	database := tenant.DatabaseName(gymKey)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var exists int
	err := p.admin.QueryRow(ctx, "SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1", database).Scan(&exists)
	switch {
	case err == nil:
		metrics.ProvisionTotal.WithLabelValues("create_database", "skipped").Inc()
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		// fall through to CREATE DATABASE
	default:
		metrics.ProvisionTotal.WithLabelValues("create_database", "error").Inc()
		return fmt.Errorf("check database %s: %w", database, err)
	}

	// CREATE DATABASE cannot run inside a transaction; the pool executes it
	// as a single autocommit statement.
	if _, err := p.admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{database}.Sanitize()); err != nil {
		metrics.ProvisionTotal.WithLabelValues("create_database", "error").Inc()
		return fmt.Errorf("create database %s: %w", database, err)
	}

	metrics.ProvisionTotal.WithLabelValues("create_database", "ok").Inc()
	p.logger.Info("created gym database", zap.String("gym", gymKey), zap.String("database", database))
	return nil
}

// Attach registers the gym's connection entry and applies pending gym-schema
// migrations. A connection or migration failure is transient: it is logged
// and swallowed, the gym stays registered unmigrated, and the next startup
// pass or explicit provisioning call retries. The returned error is reserved
// for configuration problems that make registration itself impossible.
func (p *DBProvisioner) Attach(ctx context.Context, gymKey string) error {
	if err := tenant.ValidateKey(gymKey); err != nil {
		return err
	}
	database := tenant.DatabaseName(gymKey)

	pool, err := p.tenantPool(ctx, gymKey, database)
	if err != nil {
		return fmt.Errorf("build pool for %s: %w", database, err)
	}

	p.registry.Register(persistence.ConnEntry{
		GymKey:   gymKey,
		Database: database,
		Pool:     pool,
	})
	metrics.RegisteredGyms.Set(float64(p.registry.Len()))

	migrateCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := pool.Ping(migrateCtx); err != nil {
		metrics.ProvisionTotal.WithLabelValues("attach", "error").Inc()
		p.logger.Warn("gym database unreachable; migration deferred to next provisioning pass",
			zap.String("gym", gymKey), zap.String("database", database), zap.Error(err))
		return nil
	}

	if err := persistence.MigrateGymSchema(migrateCtx, pool); err != nil {
		metrics.ProvisionTotal.WithLabelValues("attach", "error").Inc()
		p.logger.Warn("gym schema migration failed; will retry on next provisioning pass",
			zap.String("gym", gymKey), zap.String("database", database), zap.Error(err))
		return nil
	}

	metrics.ProvisionTotal.WithLabelValues("attach", "ok").Inc()
	p.logger.Info("gym database attached", zap.String("gym", gymKey), zap.String("database", database))
	return nil
}

// tenantPool returns the pool to register for a gym. A re-attach against an
// already-registered gym reuses the live pool, so requests holding the old
// handle never acquire from a closed pool; a fresh pool is built otherwise.
func (p *DBProvisioner) tenantPool(ctx context.Context, gymKey, database string) (*pgxpool.Pool, error) {
	if prev, err := p.registry.Resolve(gymKey); err == nil && prev.Database == database && prev.Pool != nil {
		return prev.Pool, nil
	}
	return persistence.NewLazyPool(ctx, persistence.PoolConfig{
		ConnString: p.settings.URL(database),
	})
}

var _ service.Provisioner = (*DBProvisioner)(nil)
