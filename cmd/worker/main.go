package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/plataforma-sst/accessgate/internal/app"
	"github.com/plataforma-sst/accessgate/internal/platform/cache"
	sig "github.com/plataforma-sst/accessgate/internal/signal"
	"github.com/plataforma-sst/accessgate/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	broadcaster := sig.NewBroadcaster()
	bridge := sig.NewBridge(logger, redisClient, broadcaster, cfg.RefreshChannel)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypePermissionsRefresh, Handler: jobs.NewPermissionsRefreshHandler(logger, bridge)},
			{Type: jobs.TaskTypeSessionSweep, Handler: jobs.NewSessionSweepHandler(logger, redisClient)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "45 3 * * *", Task: jobs.NewSessionSweepTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
