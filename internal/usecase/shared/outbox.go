package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusFailed = "failed"
	JobStatusQueued = "queued"
)

// Job is a claimed notification_jobs row.
type Job struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
	RunAt    time.Time
}

// JobBatch is a set of claimed jobs whose rows stay locked until the batch function returns.
type JobBatch interface {
	Jobs() []Job
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, status, lastError string, runAt, now time.Time) error
}

type JobStore interface {
	WithDueJobs(ctx context.Context, now time.Time, limit int32, fn func(ctx context.Context, batch JobBatch) error) error
}
