package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/medref/medref/internal/jobs"
	"github.com/medref/medref/internal/rbac"
)

type fakeReloader struct {
	calls int
	table *rbac.Table
	err   error
}

func (f *fakeReloader) ReloadAndBroadcast(ctx context.Context) (*rbac.Table, error) {
	f.calls++
	return f.table, f.err
}

func newReloadJob(r Reloader) *RBACReloadJob {
	return NewRBACReloadJob(r, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
}

func TestNewRBACReloadTaskDefaults(t *testing.T) {
	task, err := NewRBACReloadTask(RBACReloadPayload{})
	require.NoError(t, err)
	require.Equal(t, TaskRBACReload, task.Type())

	var payload RBACReloadPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "manual", payload.Reason)
	require.False(t, payload.RequestedAt.IsZero())
}

func TestRBACReloadJobHandle(t *testing.T) {
	reloader := &fakeReloader{table: rbac.DefaultTable()}
	job := newReloadJob(reloader)

	task, err := NewRBACReloadTask(RBACReloadPayload{Reason: "cron"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, reloader.calls)
}

func TestRBACReloadJobPropagatesFailure(t *testing.T) {
	reloader := &fakeReloader{err: errors.New("postgres unavailable")}
	job := newReloadJob(reloader)

	task, err := NewRBACReloadTask(RBACReloadPayload{Reason: "cron"})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}

func TestRBACReloadJobSkipsMalformedPayload(t *testing.T) {
	reloader := &fakeReloader{table: rbac.DefaultTable()}
	job := newReloadJob(reloader)

	err := job.Handle(context.Background(), asynq.NewTask(TaskRBACReload, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, reloader.calls)
}

func TestRBACReloadJobRequiresReloader(t *testing.T) {
	var job *RBACReloadJob
	require.Error(t, job.Handle(context.Background(), asynq.NewTask(TaskRBACReload, nil)))
}

func TestJobsHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, nil).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0,"active":0,"scheduled":0,"retry":0,"paused":false}`, rec.Body.String())
}

func TestRBACReloadJobMetricsAreScraped(t *testing.T) {
	metrics, handler := jobmetrics.NewServedMetrics()
	job := NewRBACReloadJob(&fakeReloader{table: rbac.DefaultTable()}, nil, metrics)

	task, err := NewRBACReloadTask(RBACReloadPayload{Reason: "cron"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `medref_jobs_total{job="rbac:reload",status="success"} 1`)
	require.Contains(t, body, `medref_job_duration_seconds_count{job="rbac:reload"} 1`)
	require.Contains(t, body, `medref_job_last_success_timestamp_seconds{job="rbac:reload"}`)
}
