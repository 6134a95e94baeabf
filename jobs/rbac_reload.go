package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/medref/medref/internal/jobs"
	"github.com/medref/medref/internal/rbac"
)

// Reloader rebuilds the role table and announces it to peers.
type Reloader interface {
	ReloadAndBroadcast(ctx context.Context) (*rbac.Table, error)
}

// RBACReloadJob revalidates the role source and pushes the result to every
// API instance through the reload channel.
type RBACReloadJob struct {
	Reloader Reloader
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	Timeout  time.Duration
}

// NewRBACReloadJob wires dependencies for the reload handler.
func NewRBACReloadJob(reloader Reloader, logger *slog.Logger, metrics *jobmetrics.Metrics) *RBACReloadJob {
	return &RBACReloadJob{Reloader: reloader, Logger: logger, Metrics: metrics, Timeout: 30 * time.Second}
}

// Handle processes TaskRBACReload tasks.
func (j *RBACReloadJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reloader == nil {
		return errors.New("rbac reload: handler not configured")
	}
	var payload RBACReloadPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("rbac reload: decode payload: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskRBACReload)
	logger := j.logger().With(slog.String("reason", payload.Reason))
	if payload.RequestedBy != "" {
		logger = logger.With(slog.String("requested_by", payload.RequestedBy))
	}

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	table, err := j.Reloader.ReloadAndBroadcast(ctx)
	if err != nil {
		// A non-nil table means only the broadcast failed; the retry
		// publishes again.
		logger.Error("rbac reload", slog.Bool("loaded", table != nil), slog.Any("error", err))
		return tracker.End(err)
	}
	logger.Info("rbac reload completed",
		slog.String("source", table.Source()),
		slog.Int("roles", len(table.Roles())))
	return tracker.End(nil)
}

func (j *RBACReloadJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
