package repository

import (
	"context"
	"time"

	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"

	"github.com/google/uuid"
)

type IdempotencyWriteQueries interface {
	InsertIdempotencyKey(ctx context.Context, db query.DBTX, arg query.InsertIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db query.DBTX, key, userID, reservationID uuid.UUID) (int64, error)
	ClaimExpiredIdempotencyKey(ctx context.Context, db query.DBTX, arg query.ClaimExpiredIdempotencyKeyParams) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      query.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db query.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

// TryInsert reports false when the key already exists for the user.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	affected, err := r.queries.InsertIdempotencyKey(ctx, r.db, query.InsertIdempotencyKeyParams{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return affected == 1, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key, userID, reservationID uuid.UUID) error {
	affected, err := r.queries.CompleteIdempotencyKey(ctx, r.db, key, userID, reservationID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	affected, err := r.queries.ClaimExpiredIdempotencyKey(ctx, r.db, query.ClaimExpiredIdempotencyKeyParams{
		Key:         key,
		UserID:      userID,
		RequestHash: requestHash,
		Now:         now,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return affected == 1, nil
}
