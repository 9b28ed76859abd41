package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	accountshandler "github.com/fitstack/gymgate/domains/accounts/be/handler"
	accountsrepo "github.com/fitstack/gymgate/domains/accounts/be/repo"
	accountsservice "github.com/fitstack/gymgate/domains/accounts/be/service"
	gymshandler "github.com/fitstack/gymgate/domains/gyms/be/handler"
	gymsprov "github.com/fitstack/gymgate/domains/gyms/be/provisioning"
	gymsrepo "github.com/fitstack/gymgate/domains/gyms/be/repo"
	gymsservice "github.com/fitstack/gymgate/domains/gyms/be/service"
	managementhandler "github.com/fitstack/gymgate/domains/management/be/handler"
	managementrepo "github.com/fitstack/gymgate/domains/management/be/repo"
	managementservice "github.com/fitstack/gymgate/domains/management/be/service"
	platformauth "github.com/fitstack/gymgate/platform/go/auth"
	platformlogging "github.com/fitstack/gymgate/platform/go/logging"
	platformmiddleware "github.com/fitstack/gymgate/platform/go/middleware"
	"github.com/fitstack/gymgate/platform/go/persistence"
	tenantmiddleware "github.com/fitstack/gymgate/platform/go/tenant/middleware"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseHost     string `env:"DATABASE_HOST" envDefault:"localhost"`
	DatabasePort     int    `env:"DATABASE_PORT" envDefault:"5432"`
	DatabaseUser     string `env:"DATABASE_USER,required"`
	DatabasePassword string `env:"DATABASE_PASSWORD,required"`
	DatabaseName     string `env:"DATABASE_NAME" envDefault:"gymgate"`
	DatabaseSSLMode  string `env:"DATABASE_SSLMODE" envDefault:"disable"`

	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"gymgate"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	ProvisionTimeout time.Duration `env:"PROVISION_TIMEOUT" envDefault:"30s"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	settings := persistence.ConnSettings{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: settings.URL(cfg.DatabaseName)})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	if err := persistence.BootstrapControlPlane(ctx, pool); err != nil {
		logger.Fatal("bootstrap control plane schema", zap.Error(err))
	}

	registry := persistence.NewRegistry()
	defer registry.Close()

	provisioner := gymsprov.NewDBProvisioner(gymsprov.Config{
		Admin:    pool,
		Registry: registry,
		Settings: settings,
		Logger:   logger,
		Timeout:  cfg.ProvisionTimeout,
	})

	gymRepo := gymsrepo.NewPostgresRepository(pool)
	gymService := gymsservice.New(gymRepo, provisioner)
	gymHTTPHandler := gymshandler.New(gymService, logger)

	// Reattach every known gym before accepting traffic. A gym whose database
	// is unreachable is skipped, not fatal.
	loader := gymsprov.NewLoader(gymRepo, provisioner, logger)
	if err := loader.LoadAll(ctx); err != nil {
		logger.Fatal("load gym registry", zap.Error(err))
	}

	issuer := platformauth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	accountRepo := accountsrepo.NewPostgresRepository(pool)
	accountService := accountsservice.New(accountRepo, issuer)
	accountHTTPHandler := accountshandler.New(accountService, logger)

	managementService := managementservice.New(managementservice.RepoSet{
		Members:  managementrepo.NewPostgresMembers(),
		Trainers: managementrepo.NewPostgresTrainers(),
		Classes:  managementrepo.NewPostgresClasses(),
		Payments: managementrepo.NewPostgresPayments(),
		Entries:  managementrepo.NewPostgresEntries(),
	})
	managementHTTPHandler := managementhandler.New(managementService, logger)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Handle("/metrics", promhttp.Handler())

	apiRouter := chi.NewRouter()

	apiRouter.Mount("/auth", accountHTTPHandler.PublicRoutes())

	// Platform administration: staff accounts only.
	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireAuth(issuer))
		r.Use(platformauth.RequireStaff())
		r.Mount("/gyms", gymHTTPHandler.Routes())
		r.Mount("/users", accountHTTPHandler.StaffRoutes())
	})

	// Gym-scoped operations: authenticated, routed by the ?gym= query param.
	apiRouter.Group(func(r chi.Router) {
		r.Use(platformauth.RequireAuth(issuer))
		r.Use(tenantmiddleware.WithGymHandle(registry))
		r.Mount("/", managementHTTPHandler.Routes())
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
