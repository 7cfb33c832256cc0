package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadrouter/internal/audit"
	"leadrouter/internal/auth"
	"leadrouter/internal/config"
	"leadrouter/internal/httpapi"
	"leadrouter/internal/reporting"
	"leadrouter/internal/routing"
	"leadrouter/pkg/logger"
	"leadrouter/pkg/metrics"
	"leadrouter/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments inject env directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("env file not loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, cfg.PostgresDSN(), utils.PostgresPoolConfig{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "leadrouter"),
	)

	store := routing.NewPostgresStore(db)
	users := store.UserStore()

	router := routing.NewRouter(store, store.RuleStore(), users, store)
	router.Conditions = routing.NewConditionCache(cfg.Routing.ConditionCacheSize)
	router.Audit = routing.AuditAdapter{Audit: audit.NewService(audit.NewPostgresRepo(db))}
	router.Metrics = metrics.NewRoutingMetrics(reg)

	if cfg.Routing.LockEnabled {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		router.Locker = routing.NewRedisLocker(rdb, cfg.Routing.LockTTL, cfg.Routing.LockWait)
		log.Info("tenant routing lock enabled", "ttl", cfg.Routing.LockTTL, "wait", cfg.Routing.LockWait)
	}

	h := httpapi.Handlers{
		Auth:    authManager,
		Router:  router,
		Reports: reporting.NewService(users, routing.NewCalculator(store, store)),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		handlers: h,
		authMW:   auth.RequireAccessToken(authManager),
		db:       db,
		registry: reg,
		devLogin: !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
