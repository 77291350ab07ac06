package worker

import (
	"context"

	"github.com/vytor/plantquiz/internal/quiz"
)

// ProgressWriter persists the outcome of a finished round.
type ProgressWriter interface {
	ApplySync(ctx context.Context, plan quiz.SyncPlan) error
}

// SyncProgressJob writes one round's progress. It is attempted once; failures
// are only logged by the pool.
type SyncProgressJob struct {
	Writer ProgressWriter
	Plan   quiz.SyncPlan
}

func (j *SyncProgressJob) Name() string { return "sync_progress" }

func (j *SyncProgressJob) Run(ctx context.Context) error {
	return j.Writer.ApplySync(ctx, j.Plan)
}

type syncDispatcher struct {
	pool   *Pool
	writer ProgressWriter
}

// NewSyncDispatcher queues round progress writes on pool.
func NewSyncDispatcher(pool *Pool, writer ProgressWriter) quiz.SyncDispatcher {
	return &syncDispatcher{pool: pool, writer: writer}
}

func (d *syncDispatcher) Dispatch(plan quiz.SyncPlan) error {
	return d.pool.Submit(&SyncProgressJob{Writer: d.writer, Plan: plan})
}
