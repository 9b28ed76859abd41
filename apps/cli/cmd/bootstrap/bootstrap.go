package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	accountsrepo "github.com/fitstack/gymgate/domains/accounts/be/repo"
	accountsservice "github.com/fitstack/gymgate/domains/accounts/be/service"
	platformauth "github.com/fitstack/gymgate/platform/go/auth"
	"github.com/fitstack/gymgate/platform/go/persistence"
)

// Command applies the control-plane DDL and ensures the initial superuser
// exists. Gym databases are not touched here; use "gymgate gym" for those.
func Command() *cobra.Command {
	var (
		dbHost     string
		dbPort     int
		dbUser     string
		dbPassword string
		dbName     string
		email      string
		name       string
		phone      string
		password   string
	)

	c := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap control-plane schema and initial superuser",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			settings := persistence.ConnSettings{
				Host:     dbHost,
				Port:     dbPort,
				User:     dbUser,
				Password: dbPassword,
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: settings.URL(dbName)})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.BootstrapControlPlane(ctx, pool); err != nil {
				return fmt.Errorf("bootstrap control plane: %w", err)
			}

			// The issuer is only exercised by login flows; the CLI never mints
			// tokens, so any non-empty secret satisfies construction.
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				secret = "cli-bootstrap"
			}
			issuer := platformauth.NewIssuer(secret, "gymgate", time.Hour, 24*time.Hour)

			svc := accountsservice.New(accountsrepo.NewPostgresRepository(pool), issuer)
			user, err := svc.Register(ctx, accountsservice.RegisterInput{
				Name:        name,
				Phone:       phone,
				Email:       email,
				Password:    password,
				IsStaff:     true,
				IsSuperuser: true,
			})
			if err != nil {
				if errors.Is(err, accountsservice.ErrEmailTaken) {
					fmt.Fprintf(cmd.OutOrStdout(), "Bootstrap complete. Superuser %s already exists.\n", email)
					return nil
				}
				return fmt.Errorf("create superuser: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Bootstrap complete. Superuser: %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}

	c.Flags().StringVar(&dbHost, "db-host", "localhost", "PostgreSQL host")
	c.Flags().IntVar(&dbPort, "db-port", 5432, "PostgreSQL port")
	c.Flags().StringVar(&dbUser, "db-user", "", "PostgreSQL user")
	c.Flags().StringVar(&dbPassword, "db-password", "", "PostgreSQL password")
	c.Flags().StringVar(&dbName, "db-name", "gymgate", "Control-plane database name")
	c.Flags().StringVar(&email, "email", "", "Superuser email")
	c.Flags().StringVar(&name, "name", "", "Superuser display name")
	c.Flags().StringVar(&phone, "phone", "", "Superuser phone number (optional)")
	c.Flags().StringVar(&password, "password", "", "Superuser password")

	_ = c.MarkFlagRequired("db-user")
	_ = c.MarkFlagRequired("db-password")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("password")

	return c
}
