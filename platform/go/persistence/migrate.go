package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/fitstack/gymgate/database"
)

// BootstrapControlPlane applies the control-plane DDL (users, gyms) in a
// single transaction. SQL is embedded at build time so binaries stay
// self-contained. Idempotent; intended for CLI bootstrap and tests.
func BootstrapControlPlane(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("bootstrap control plane: pool is required")
	}
	return applyDDL(ctx, pool, sqlassets.ControlPlaneDDL())
}

// MigrateGymSchema applies all pending gym-entity DDL to one gym's physical
// database. Only the gym-entity schema is applied here; control-plane tables
// never leak into tenant databases. Idempotent: every statement uses
// IF NOT EXISTS, so re-running against a migrated database is a no-op.
func MigrateGymSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("migrate gym schema: pool is required")
	}
	return applyDDL(ctx, pool, sqlassets.GymDDL())
}

func applyDDL(ctx context.Context, pool *pgxpool.Pool, assets []string) error {
	var statements []string
	for _, asset := range assets {
		statements = append(statements, splitStatements(asset)...)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply ddl: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// splitStatements breaks an embedded SQL asset into individual statements.
// The embedded DDL contains no procedural bodies, so splitting on ";" is safe.
func splitStatements(asset string) []string {
	raw := strings.Split(asset, ";")
	statements := make([]string, 0, len(raw))
	for _, stmt := range raw {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}
