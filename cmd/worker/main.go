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

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/medref/medref/internal/app"
	jobmetrics "github.com/medref/medref/internal/jobs"
	"github.com/medref/medref/internal/platform/cache"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/roles"
	"github.com/medref/medref/jobs"
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

	var rolePool roles.Pool
	if cfg.NeedsPostgres() {
		var pool *pgxpool.Pool
		pool, err = db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			logger.Error("connect database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		rolePool = pool
	}

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

	source, err := app.RoleSource(cfg, rolePool)
	if err != nil {
		logger.Error("role source", slog.Any("error", err))
		os.Exit(1)
	}
	rbacService, err := app.NewRBACService(ctx, source, logger, nil)
	if err != nil {
		logger.Error("load role table", slog.Any("error", err))
		os.Exit(1)
	}
	rbacService.SetBroadcaster(rbac.NewReloadNotifier(redisClient, cfg.RBACReloadChannel, logger))

	jobMetrics, metricsHandler := jobmetrics.NewServedMetrics()
	reloadJob := jobs.NewRBACReloadJob(rbacService, logger, jobMetrics)
	reloadTask, err := jobs.NewRBACReloadTask(jobs.RBACReloadPayload{Reason: "cron"})
	if err != nil {
		logger.Error("build reload task", slog.Any("error", err))
		os.Exit(1)
	}

	var cron []jobs.CronRegistration
	if cfg.RBACReloadCron != "" {
		cron = append(cron, jobs.CronRegistration{Spec: cfg.RBACReloadCron, Task: reloadTask, Options: []asynq.Option{asynq.MaxRetry(3)}})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRBACReload, Handler: reloadJob.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if cfg.WorkerMetricsAddr != "" {
		router := chi.NewRouter()
		router.Method(http.MethodGet, "/metrics", metricsHandler)
		server := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
		group.Go(func() error {
			logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
