package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRBACReload reloads the role table from its source and notifies
	// every API instance.
	TaskRBACReload = "rbac:reload"
)

// ReloadUniqueWindow collapses reload requests enqueued close together.
const ReloadUniqueWindow = 30 * time.Second

// RBACReloadPayload describes why a reload was requested.
type RBACReloadPayload struct {
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRBACReloadTask constructs an Asynq task.
func NewRBACReloadTask(payload RBACReloadPayload) (*asynq.Task, error) {
	if payload.Reason == "" {
		payload.Reason = "manual"
	}
	if payload.RequestedAt.IsZero() {
		payload.RequestedAt = time.Now().UTC()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRBACReload, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
