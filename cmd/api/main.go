package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sekolah-terpadu/inventaris-backend/api/routes"
	"github.com/sekolah-terpadu/inventaris-backend/internal/auth"
	"github.com/sekolah-terpadu/inventaris-backend/internal/dashboard"
	"github.com/sekolah-terpadu/inventaris-backend/internal/inventaris"
	"github.com/sekolah-terpadu/inventaris-backend/internal/ledger"
	"github.com/sekolah-terpadu/inventaris-backend/internal/obat"
	"github.com/sekolah-terpadu/inventaris-backend/internal/reports"
	"github.com/sekolah-terpadu/inventaris-backend/internal/satuan"
	"github.com/sekolah-terpadu/inventaris-backend/internal/users"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/auth/session"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/config"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/db"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/logger"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/metrics"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/migrate"
	"github.com/sekolah-terpadu/inventaris-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(context.Background(), "failed to load timezone", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	stockMetrics := metrics.NewStockMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	mustService(logg, "auth", err)

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	mustService(logg, "ledger", err)

	obatService, err := obat.NewService(obat.ServiceParams{
		Repo:        obat.NewRepository(dbClient.DB()),
		TxRunner:    dbClient,
		Ledger:      ledgerService,
		Metrics:     stockMetrics,
		Logger:      logg,
		Location:    loc,
		SweepOnRead: cfg.FeatureFlags.SweepOnRead,
	})
	mustService(logg, "obat", err)

	inventarisService, err := inventaris.NewService(inventaris.NewRepository(dbClient.DB()), obatService, nil)
	mustService(logg, "inventaris", err)

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), dbClient, obatService, nil)
	mustService(logg, "dashboard", err)

	reportService, err := reports.NewService(reports.ServiceParams{
		Repo:     reports.NewRepository(dbClient.DB()),
		TxRunner: dbClient,
		Sweeper:  obatService,
		Logger:   logg,
		Location: loc,
		MaxRows:  cfg.Reports.MaxRows,
	})
	mustService(logg, "reports", err)

	satuanService, err := satuan.NewService(satuan.NewRepository(dbClient.DB()))
	mustService(logg, "satuan", err)

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Sessions:       sessionManager,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Auth:           authService,
			Inventaris:     inventarisService,
			Obat:           obatService,
			Ledger:         ledgerService,
			Dashboard:      dashboardService,
			Reports:        reportService,
			Satuan:         satuanService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}

func mustService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(context.Background(), "service", name), "failed to create service", err)
	os.Exit(1)
}
