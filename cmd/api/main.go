package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/visionapps/darkshop-core/api/routes"
	"github.com/visionapps/darkshop-core/internal/auth"
	"github.com/visionapps/darkshop-core/internal/catalog"
	"github.com/visionapps/darkshop-core/internal/gate"
	"github.com/visionapps/darkshop-core/internal/ledger"
	"github.com/visionapps/darkshop-core/internal/sales"
	"github.com/visionapps/darkshop-core/internal/session"
	"github.com/visionapps/darkshop-core/internal/storage"
	"github.com/visionapps/darkshop-core/internal/vault"
	"github.com/visionapps/darkshop-core/pkg/config"
	"github.com/visionapps/darkshop-core/pkg/db"
	"github.com/visionapps/darkshop-core/pkg/logger"
	"github.com/visionapps/darkshop-core/pkg/metrics"
	"github.com/visionapps/darkshop-core/pkg/migrate"
	"github.com/visionapps/darkshop-core/pkg/redis"
	"github.com/visionapps/darkshop-core/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var closers []func() error
	defer func() {
		var errs error
		for _, closeFn := range closers {
			errs = multierr.Append(errs, closeFn())
		}
		if errs != nil {
			logg.Error(context.Background(), "error during shutdown", errs)
		}
	}()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	durable, err := storage.NewGormStore(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create durable store", err)
		os.Exit(1)
	}

	// The volatile tier prefers Redis; without one the session mirror
	// lives in process memory.
	var volatile storage.Store = storage.NewMemoryStore()
	var redisPinger redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		redisPinger = redisClient

		volatile, err = storage.NewRedisStore(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create volatile store", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	coreMetrics := metrics.NewCoreMetrics(registry)

	vaultService, err := vault.NewService(vault.ServiceParams{
		Store:   durable,
		Params:  security.ParamsFromConfig(cfg.Vault),
		Logger:  logg,
		Metrics: coreMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vault service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.ServiceParams{
		Repo:    ledger.NewRepository(durable),
		Metrics: coreMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(session.ManagerParams{
		Volatile: volatile,
		Ledger:   ledgerService,
		Logger:   logg,
		Config:   cfg.Session,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	if _, restored, err := sessionManager.Restore(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to restore session", err)
	} else if restored {
		logg.Info(context.Background(), "previous session restored")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Vault:    vaultService,
		Sessions: sessionManager,
		Roles:    cfg.Roles,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(durable))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	var verifier gate.Verifier
	if client := gate.NewHTTPClient(cfg.Gate); client != nil {
		verifier = client
	}
	gateService, err := gate.NewService(gate.ServiceParams{
		Verifier: verifier,
		Fallback: cfg.Gate.FallbackPolicy(),
		Logger:   logg,
		Metrics:  coreMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gate service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(sales.ServiceParams{
		Catalog:  catalogService,
		Ledger:   ledgerService,
		Gate:     gateService,
		Sessions: sessionManager,
		Config:   cfg.Session,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisPinger,
			Registry: registry,
			Auth:     authService,
			Ledger:   ledgerService,
			Catalog:  catalogService,
			Sales:    salesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
