package repository

import (
	"context"

	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ResourceLockQueries interface {
	LockResource(ctx context.Context, db query.DBTX, id uuid.UUID) (uuid.UUID, error)
}

type ResourceRepository struct {
	queries ResourceLockQueries
	db      query.DBTX
}

func NewResourceRepository(queries ResourceLockQueries, db query.DBTX) *ResourceRepository {
	return &ResourceRepository{
		queries: queries,
		db:      db,
	}
}

// LockForBooking takes the resource row lock; concurrent bookings of the same resource queue here.
func (r *ResourceRepository) LockForBooking(ctx context.Context, id uuid.UUID) error {
	if _, err := r.queries.LockResource(ctx, r.db, id); err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock resource", err)
	}
	return nil
}
