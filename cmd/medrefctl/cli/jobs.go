package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/medref/medref/jobs"
)

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	if redisAddr == "" {
		return nil, errors.New("jobs cli: redis address is required")
	}
	opt := asynq.RedisClientOpt{Addr: redisAddr}
	client, err := jobs.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("jobs cli: %w", err)
	}
	return &JobsCLI{client: client, inspector: asynq.NewInspector(opt)}, nil
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// TriggerReload enqueues an rbac:reload task. A reload already queued within
// the uniqueness window is reported as deduplicated rather than failed.
func (c *JobsCLI) TriggerReload(ctx context.Context, requestedBy string) (info *asynq.TaskInfo, deduplicated bool, err error) {
	if c == nil || c.client == nil {
		return nil, false, errors.New("jobs cli: client not configured")
	}
	info, err = c.client.EnqueueRBACReload(ctx, jobs.RBACReloadPayload{Reason: "medrefctl", RequestedBy: requestedBy})
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("jobs cli: enqueue %s: %w", jobs.TaskRBACReload, err)
	}
	return info, false, nil
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}
