//go:build unit

package worker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"turf-reservation/internal/infra/broker"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/usecase/shared"
	"turf-reservation/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failedMark struct {
	status    string
	lastError string
	runAt     time.Time
}

type fakeStore struct {
	jobs   []shared.Job
	limit  int32
	sent   []uuid.UUID
	failed map[uuid.UUID]failedMark
	err    error
}

func (s *fakeStore) WithDueJobs(ctx context.Context, now time.Time, limit int32, fn func(ctx context.Context, batch shared.JobBatch) error) error {
	if s.err != nil {
		return s.err
	}
	s.limit = limit
	return fn(ctx, s)
}

func (s *fakeStore) Jobs() []shared.Job { return s.jobs }

func (s *fakeStore) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id uuid.UUID, status, lastError string, runAt, _ time.Time) error {
	if s.failed == nil {
		s.failed = make(map[uuid.UUID]failedMark)
	}
	s.failed[id] = failedMark{status: status, lastError: lastError, runAt: runAt}
	return nil
}

type fakePublisher struct {
	failTopics map[string]error
	published  []broker.Message
}

func (p *fakePublisher) Publish(_ context.Context, msg broker.Message) error {
	if err, ok := p.failTopics[msg.Topic]; ok {
		return err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestOutboxRelay_RunOnce(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	cfg := config.NewTestConfig()

	okJob := shared.Job{ID: uuid.New(), Topic: "reservation.created", Payload: []byte(`{"a":1}`)}
	retryJob := shared.Job{ID: uuid.New(), Topic: "reservation.cancelled", Attempts: 0}
	lastJob := shared.Job{ID: uuid.New(), Topic: "reservation.cancelled", Attempts: cfg.Outbox.MaxAttempts - 1}

	store := &fakeStore{jobs: []shared.Job{okJob, retryJob, lastJob}}
	publisher := &fakePublisher{failTopics: map[string]error{"reservation.cancelled": errors.New("channel closed")}}
	relay := worker.NewOutboxRelay(store, publisher, clock.NewMockClock(now), cfg)

	sent, err := relay.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sent)
	assert.Equal(t, cfg.Outbox.BatchSize, store.limit)
	assert.Equal(t, []uuid.UUID{okJob.ID}, store.sent)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, okJob.ID, publisher.published[0].ID)
	assert.Equal(t, `{"a":1}`, string(publisher.published[0].Payload))

	retry := store.failed[retryJob.ID]
	assert.Equal(t, shared.JobStatusQueued, retry.status)
	assert.Equal(t, "channel closed", retry.lastError)
	assert.Equal(t, now.Add(worker.Backoff(1)), retry.runAt)

	assert.Equal(t, shared.JobStatusFailed, store.failed[lastJob.ID].status)
}

func TestOutboxRelay_LongErrorKeepsRunes(t *testing.T) {
	job := shared.Job{ID: uuid.New(), Topic: "reservation.created"}
	store := &fakeStore{jobs: []shared.Job{job}}
	// The odd prefix puts byte 500 in the middle of a two-byte rune.
	msg := "x" + strings.Repeat("é", 300)
	publisher := &fakePublisher{failTopics: map[string]error{"reservation.created": errors.New(msg)}}
	relay := worker.NewOutboxRelay(store, publisher, clock.NewMockClock(time.Now()), config.NewTestConfig())

	_, err := relay.RunOnce(context.Background())
	require.NoError(t, err)

	lastError := store.failed[job.ID].lastError
	assert.True(t, utf8.ValidString(lastError))
	assert.LessOrEqual(t, len(lastError), 500)
	assert.True(t, strings.HasPrefix(msg, lastError))
	assert.Len(t, lastError, 499)
}

func TestOutboxRelay_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	relay := worker.NewOutboxRelay(store, &fakePublisher{}, clock.NewMockClock(time.Now()), config.NewTestConfig())

	sent, err := relay.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, sent)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempts int32
		want     time.Duration
	}{
		{attempts: 1, want: 2 * time.Second},
		{attempts: 2, want: 4 * time.Second},
		{attempts: 5, want: 32 * time.Second},
		{attempts: 20, want: 5 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, worker.Backoff(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestOutboxRelay_StartStop(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Outbox.PollInterval = 10 * time.Millisecond

	job := shared.Job{ID: uuid.New(), Topic: "reservation.created"}
	store := &lockedStore{inner: &fakeStore{jobs: []shared.Job{job}}}
	relay := worker.NewOutboxRelay(store, &fakePublisher{}, clock.NewMockClock(time.Now()), cfg)

	relay.Start(context.Background())
	require.Eventually(t, func() bool { return store.calls() > 0 }, time.Second, 5*time.Millisecond)
	relay.Stop()
}

type lockedStore struct {
	mu    sync.Mutex
	n     int
	inner *fakeStore
}

func (s *lockedStore) WithDueJobs(ctx context.Context, now time.Time, limit int32, fn func(ctx context.Context, batch shared.JobBatch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.inner.WithDueJobs(ctx, now, limit, fn)
}

func (s *lockedStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
