package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-scheduler/internal/db"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/logger"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/routes"
	"github.com/BruksfildServices01/agenda-scheduler/internal/tenancy"
	"github.com/BruksfildServices01/agenda-scheduler/internal/wizard"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	// ======================================================
	// CACHE (opcional)
	// ======================================================
	var availabilityCache domain.AvailabilityCache
	if cfg.RedisEnabled() {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable, running without availability cache", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			availabilityCache = cache.NewRedisAvailabilityCache(client)
			log.Info("availability cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	// ======================================================
	// METRICS + AUDIT + TENANTS
	// ======================================================
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulerMetrics := metrics.NewSchedulerMetrics(registry)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log.Named("audit"))

	resolver := tenancy.NewResolver(
		infraRepo.NewTenantGormRepository(db),
		cfg.TenantCacheSize,
		cfg.TenantCacheTTL,
	)

	sessions := wizard.NewSessionStore[wizard.BookingData](cfg.BookingSessionTTL)
	go sessions.RunJanitor(ctx, time.Minute)

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Cache:    availabilityCache,
		Registry: registry,
		Metrics:  schedulerMetrics,
		Audit:    auditDispatcher,
		Resolver: resolver,
		Sessions: sessions,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	auditDispatcher.Close()
}
