package gym

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gymsprov "github.com/fitstack/gymgate/domains/gyms/be/provisioning"
	gymsrepo "github.com/fitstack/gymgate/domains/gyms/be/repo"
	gymsservice "github.com/fitstack/gymgate/domains/gyms/be/service"
	platformlogging "github.com/fitstack/gymgate/platform/go/logging"
	"github.com/fitstack/gymgate/platform/go/persistence"
)

// Command groups gym database helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gym",
		Short: "Gym database provisioning helpers",
	}

	cmd.AddCommand(provisionCommand())
	cmd.AddCommand(attachAllCommand())
	return cmd
}

type connFlags struct {
	host     string
	port     int
	user     string
	password string
	name     string
}

func (f *connFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.host, "db-host", "localhost", "PostgreSQL host")
	c.Flags().IntVar(&f.port, "db-port", 5432, "PostgreSQL port")
	c.Flags().StringVar(&f.user, "db-user", "", "PostgreSQL user")
	c.Flags().StringVar(&f.password, "db-password", "", "PostgreSQL password")
	c.Flags().StringVar(&f.name, "db-name", "gymgate", "Control-plane database name")
	_ = c.MarkFlagRequired("db-user")
	_ = c.MarkFlagRequired("db-password")
}

func (f *connFlags) settings() persistence.ConnSettings {
	return persistence.ConnSettings{
		Host:     f.host,
		Port:     f.port,
		User:     f.user,
		Password: f.password,
	}
}

// wiring holds the provisioning stack built against the control plane.
type wiring struct {
	svc         *gymsservice.Service
	repo        *gymsrepo.PostgresRepository
	provisioner *gymsprov.DBProvisioner
	logger      *zap.Logger
	cleanup     func()
}

func buildWiring(ctx context.Context, f *connFlags) (*wiring, error) {
	logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "cli"})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	settings := f.settings()
	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: settings.URL(f.name)})
	if err != nil {
		return nil, fmt.Errorf("init pool: %w", err)
	}

	registry := persistence.NewRegistry()
	provisioner := gymsprov.NewDBProvisioner(gymsprov.Config{
		Admin:    pool,
		Registry: registry,
		Settings: settings,
		Logger:   logger,
	})

	repo := gymsrepo.NewPostgresRepository(pool)

	return &wiring{
		svc:         gymsservice.New(repo, provisioner),
		repo:        repo,
		provisioner: provisioner,
		logger:      logger,
		cleanup: func() {
			registry.Close()
			persistence.ClosePool(pool)
			_ = logger.Sync()
		},
	}, nil
}

func provisionCommand() *cobra.Command {
	var (
		flags connFlags
		key   string
	)

	c := &cobra.Command{
		Use:   "provision",
		Short: "Create and migrate the database for one gym",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			w, err := buildWiring(ctx, &flags)
			if err != nil {
				return err
			}
			defer w.cleanup()

			rec, err := w.repo.FindByKey(ctx, key)
			if err != nil {
				return fmt.Errorf("find gym %q: %w", key, err)
			}

			if _, err := w.svc.Provision(ctx, rec.ID); err != nil {
				return fmt.Errorf("provision gym %q: %w", key, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Provisioned gym %s (%s)\n", rec.Key, rec.ID)
			return nil
		},
	}

	flags.register(c)
	c.Flags().StringVar(&key, "key", "", "Gym key to provision")
	_ = c.MarkFlagRequired("key")

	return c
}

func attachAllCommand() *cobra.Command {
	var flags connFlags

	c := &cobra.Command{
		Use:   "attach-all",
		Short: "Migrate every known gym database",
		Long:  "Walks the gyms table and attaches plus migrates each gym database, the same pass the API server runs at boot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			w, err := buildWiring(ctx, &flags)
			if err != nil {
				return err
			}
			defer w.cleanup()

			loader := gymsprov.NewLoader(w.repo, w.provisioner, w.logger)
			if err := loader.LoadAll(ctx); err != nil {
				return fmt.Errorf("attach gyms: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Attach pass complete.")
			return nil
		},
	}

	flags.register(c)
	return c
}
