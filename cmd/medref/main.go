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

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/medref/medref/internal/app"
	"github.com/medref/medref/internal/authz"
	"github.com/medref/medref/internal/observability"
	"github.com/medref/medref/internal/platform/cache"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/policy"
	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/roles"
	"github.com/medref/medref/jobs"
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
	metrics := observability.NewMetrics()

	var pool *pgxpool.Pool
	if cfg.NeedsPostgres() {
		pool, err = db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
	}

	var rolePool roles.Pool
	if pool != nil {
		rolePool = pool
	}
	source, err := app.RoleSource(cfg, rolePool)
	if err != nil {
		logger.Error("role source", slog.Any("error", err))
		os.Exit(1)
	}
	rbacService, err := app.NewRBACService(ctx, source, logger, metrics)
	if err != nil {
		logger.Error("load role table", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reload propagation disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		notifier := rbac.NewReloadNotifier(redisClient, cfg.RBACReloadChannel, logger)
		rbacService.SetBroadcaster(notifier)
		if err := notifier.Listen(ctx, func(ctx context.Context) error {
			_, err := rbacService.Reload(ctx)
			return err
		}); err != nil {
			logger.Warn("subscribe reload channel", slog.Any("error", err))
		}
	}

	engine := policy.NewEngine(policy.WithLogger(logger), policy.WithObserver(metrics))
	authzService := authz.NewService(engine, rbacService, logger)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	var rolesStore roles.Store
	if pool != nil {
		rolesStore = roles.NewRepository(pool)
	}
	rolesHandler := roles.NewHandler(logger, roles.NewService(rolesStore, rbacService), rbacService, rbacMiddleware)

	var jobHandler *jobs.Handler
	if redisClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() { _ = inspector.Close() }()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Registry:           rbacService.Registry(),
		AuthzHandler:       authz.NewHandler(logger, authzService),
		RolesHandler:       rolesHandler,
		PermissionsHandler: rbac.NewPermissionsHandler(logger, rbacService, rbacMiddleware),
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("rbac_source", source.Name()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
