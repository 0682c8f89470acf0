package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/plataforma-sst/accessgate/internal/app"
	"github.com/plataforma-sst/accessgate/internal/authapi"
	"github.com/plataforma-sst/accessgate/internal/authz"
	"github.com/plataforma-sst/accessgate/internal/decisionlog"
	"github.com/plataforma-sst/accessgate/internal/menu"
	"github.com/plataforma-sst/accessgate/internal/observability"
	"github.com/plataforma-sst/accessgate/internal/platform/cache"
	"github.com/plataforma-sst/accessgate/internal/platform/db"
	"github.com/plataforma-sst/accessgate/internal/routeguard"
	"github.com/plataforma-sst/accessgate/internal/session"
	sig "github.com/plataforma-sst/accessgate/internal/signal"
	"github.com/plataforma-sst/accessgate/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	apiClient := authapi.NewClient(cfg.AuthAPIURL)

	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		logger.Error("init token sealer", slog.Any("error", err))
		os.Exit(1)
	}
	sessionManager := session.NewManager(redisClient, apiClient, sealer, cfg.SessionTTL, logger)
	prefStore := session.NewPrefStore(redisClient, cfg.SessionTTL)

	metrics := observability.NewMetrics()

	auditRepo := decisionlog.NewRepository(dbpool)
	auditService := decisionlog.NewService(logger, auditRepo)
	auditHandler := decisionlog.NewHandler(logger, auditService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	tracker := authz.NewTracker()
	resolver := authz.NewResolver(apiClient, logger, metrics, 8)
	authzHandler := authz.NewHandler(logger, sessionManager, resolver, tracker, jobsClient)

	sessionHandler := session.NewHandler(logger, sessionManager, prefStore, auditService, tracker.Invalidate)

	registry, err := routeguard.NewRegistry(routeguard.DefaultRules())
	if err != nil {
		logger.Error("compile route rules", slog.Any("error", err))
		os.Exit(1)
	}
	guardHandler := routeguard.NewHandler(logger, registry, authzHandler, auditService)

	tree := menu.DefaultTree()
	predicates, err := menu.NewPredicateSet(tree, menu.DefaultPredicates())
	if err != nil {
		logger.Error("build menu predicates", slog.Any("error", err))
		os.Exit(1)
	}
	menuHandler := menu.NewHandler(logger, menu.NewBuilder(tree, predicates), authzHandler)

	broadcaster := sig.NewBroadcaster()
	bridge := sig.NewBridge(logger, redisClient, broadcaster, cfg.RefreshChannel)
	go func() {
		if err := bridge.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("refresh signal bridge", slog.Any("error", err))
		}
	}()
	refreshCh := broadcaster.Subscribe()
	go func() {
		for range refreshCh {
			tracker.InvalidateAll()
		}
	}()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		SessionHandler:    sessionHandler,
		AuthzHandler:      authzHandler,
		RouteGuardHandler: guardHandler,
		MenuHandler:       menuHandler,
		AuditHandler:      auditHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	broadcaster.Unsubscribe(refreshCh)
}
