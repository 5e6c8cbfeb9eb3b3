// Package worker runs the background outbox relay that forwards reservation events to the broker.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"turf-reservation/internal/infra/broker"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/usecase/shared"
)

const (
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 5 * time.Minute
	maxErrorLength = 500
)

type OutboxRelay struct {
	store     shared.JobStore
	publisher broker.Publisher
	clock     clock.Clock
	cfg       config.OutboxConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxRelay(store shared.JobStore, publisher broker.Publisher, clock clock.Clock, cfg config.Config) *OutboxRelay {
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg.Outbox,
	}
}

// RunOnce relays one batch of due jobs and reports how many were published.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	sent := 0
	now := r.clock.Now()

	err := r.store.WithDueJobs(ctx, now, r.batchSize(), func(ctx context.Context, batch shared.JobBatch) error {
		for _, job := range batch.Jobs() {
			pubErr := r.publisher.Publish(ctx, broker.Message{ID: job.ID, Topic: job.Topic, Payload: job.Payload})
			if pubErr == nil {
				if err := batch.MarkSent(ctx, job.ID, now); err != nil {
					return err
				}
				sent++
				continue
			}

			status, runAt := r.nextAttempt(job, now)
			slog.Warn("outbox publish failed",
				"job_id", job.ID,
				"topic", job.Topic,
				"attempt", job.Attempts+1,
				"status", status,
				"error", pubErr.Error())
			if err := batch.MarkFailed(ctx, job.ID, status, truncate(pubErr.Error(), maxErrorLength), runAt, now); err != nil {
				return err
			}
		}
		return nil
	})
	return sent, err
}

// nextAttempt gives up after MaxAttempts, otherwise requeues with exponential backoff.
func (r *OutboxRelay) nextAttempt(job shared.Job, now time.Time) (string, time.Time) {
	attempts := job.Attempts + 1
	if r.cfg.MaxAttempts > 0 && attempts >= r.cfg.MaxAttempts {
		return shared.JobStatusFailed, now
	}
	return shared.JobStatusQueued, now.Add(Backoff(attempts))
}

func Backoff(attempts int32) time.Duration {
	delay := baseRetryDelay
	for i := int32(1); i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

func (r *OutboxRelay) batchSize() int32 {
	if r.cfg.BatchSize <= 0 {
		return 50
	}
	return r.cfg.BatchSize
}

// Start polls until Stop is called.
func (r *OutboxRelay) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	interval := r.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.Info("outbox relay started", "poll_interval", interval.String())
		for {
			select {
			case <-ctx.Done():
				slog.Info("outbox relay stopped")
				return
			case <-ticker.C:
				sent, err := r.RunOnce(ctx)
				if err != nil && ctx.Err() == nil {
					slog.Error("outbox relay batch failed", "error", err.Error())
					continue
				}
				if sent > 0 {
					slog.Debug("outbox relay batch", "sent", sent)
				}
			}
		}
	}()
}

func (r *OutboxRelay) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
