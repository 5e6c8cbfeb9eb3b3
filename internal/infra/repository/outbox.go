package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/pkg/pgconv"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxQueries interface {
	ClaimDueNotificationJobs(ctx context.Context, db query.DBTX, now time.Time, limit int32) ([]query.NotificationJob, error)
	MarkNotificationJobSent(ctx context.Context, db query.DBTX, id uuid.UUID, now time.Time) error
	MarkNotificationJobFailed(ctx context.Context, db query.DBTX, arg query.MarkNotificationJobFailedParams) error
}

// OutboxStore claims due notification jobs with FOR UPDATE SKIP LOCKED, so several relays can
// run against one database without publishing a job twice.
type OutboxStore struct {
	pool    *pgxpool.Pool
	queries OutboxQueries
}

func NewOutboxStore(pool *pgxpool.Pool, queries OutboxQueries) *OutboxStore {
	return &OutboxStore{pool: pool, queries: queries}
}

func (s *OutboxStore) WithDueJobs(ctx context.Context, now time.Time, limit int32, fn func(ctx context.Context, batch shared.JobBatch) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return infra.WrapRepoErr("failed to begin outbox transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("outbox rollback failed", "error", rbErr.Error())
		}
	}()

	rows, err := s.queries.ClaimDueNotificationJobs(ctx, tx, now, limit)
	if err != nil {
		return infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	if len(rows) == 0 {
		return nil
	}

	batch := &outboxBatch{queries: s.queries, db: tx, jobs: make([]shared.Job, len(rows))}
	for i, row := range rows {
		batch.jobs[i] = shared.Job{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			Attempts: row.Attempts,
			RunAt:    row.RunAt,
		}
	}

	if err := fn(ctx, batch); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit outbox transaction", err)
	}
	return nil
}

type outboxBatch struct {
	queries OutboxQueries
	db      query.DBTX
	jobs    []shared.Job
}

func (b *outboxBatch) Jobs() []shared.Job {
	return b.jobs
}

func (b *outboxBatch) MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error {
	if err := b.queries.MarkNotificationJobSent(ctx, b.db, id, now); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (b *outboxBatch) MarkFailed(ctx context.Context, id uuid.UUID, status, lastError string, runAt, now time.Time) error {
	err := b.queries.MarkNotificationJobFailed(ctx, b.db, query.MarkNotificationJobFailedParams{
		ID:        id,
		Status:    status,
		LastError: pgconv.StringToPgtype(lastError),
		RunAt:     runAt,
		UpdatedAt: now,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
