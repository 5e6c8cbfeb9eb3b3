package repository

import (
	"context"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/infra/repository/converter"
	"turf-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db query.DBTX, arg query.CreateReservationParams) error
	UpdateReservationStatus(ctx context.Context, db query.DBTX, arg query.UpdateReservationStatusParams) (int64, error)
	FindReservationByIDForUpdate(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Reservation, error)
	ListLiveOccupancies(ctx context.Context, db query.DBTX, resourceID uuid.UUID, bookingDate pgtype.Date) ([]query.OccupancyRow, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      query.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db query.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

// Create inserts res. An exclusion constraint violation comes back as KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToInfra(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	affected, err := r.queries.UpdateReservationStatus(ctx, r.db, converter.ReservationStatusToInfra(res))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.FindReservationByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) LiveOccupancies(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error) {
	return LoadLiveOccupancies(ctx, r.queries, r.db, resourceID, date)
}

type OccupancyQueries interface {
	ListLiveOccupancies(ctx context.Context, db query.DBTX, resourceID uuid.UUID, bookingDate pgtype.Date) ([]query.OccupancyRow, error)
}

// LoadLiveOccupancies reads the non-cancelled windows of one resource on one date.
func LoadLiveOccupancies(ctx context.Context, q OccupancyQueries, db query.DBTX, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error) {
	pgDate := pgconv.DateToPgtype(date)
	rows, err := q.ListLiveOccupancies(ctx, db, resourceID, pgDate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list live reservations", err)
	}

	occupancies := make([]reservation.Occupancy, 0, len(rows))
	for _, row := range rows {
		o, err := converter.OccupancyFromInfra(row, pgDate)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to convert reservation", err)
		}
		occupancies = append(occupancies, o)
	}
	return occupancies, nil
}
