package readstore

import (
	"context"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/infra/repository"
	"turf-reservation/internal/infra/repository/converter"
	"turf-reservation/internal/pkg/pgconv"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationViewQueries interface {
	GetReservationView(ctx context.Context, db query.DBTX, id uuid.UUID) (query.ReservationViewRow, error)
	FindReservationByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Reservation, error)
	ListReservationsByUser(ctx context.Context, db query.DBTX, arg query.ListReservationsByUserParams) ([]query.ReservationListRow, error)
	ListLiveOccupancies(ctx context.Context, db query.DBTX, resourceID uuid.UUID, bookingDate pgtype.Date) ([]query.OccupancyRow, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      query.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db query.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return rowToReservationView(row), nil
}

// LoadByID returns the reservation entity without taking a row lock.
func (r *ReservationReadStore) LoadByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.FindReservationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	res, err := converter.ReservationFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", err)
	}
	return res, nil
}

func (r *ReservationReadStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int,
) ([]*queries.ReservationListItem, error) {
	params := query.ListReservationsByUserParams{
		UserID:         userID,
		AfterCreatedAt: pgconv.TimePtrToPgtype(afterCreatedAt),
		AfterID:        pgconv.UUIDPtrToPgtype(afterID),
		Limit:          int32(limit), // #nosec G115 -- capped by queries.MaxListLimit
	}

	rows, err := r.queries.ListReservationsByUser(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = &queries.ReservationListItem{
			ID:            row.ID,
			ResourceID:    row.ResourceID,
			ResourceName:  row.ResourceName,
			Date:          pgconv.DateFromPgtype(row.BookingDate),
			StartTime:     formatTime(row.StartTime),
			EndTime:       formatTime(row.EndTime),
			DurationHours: row.DurationHours,
			PriceCents:    row.PriceCents,
			Status:        row.Status,
			CreatedAt:     row.CreatedAt,
		}
	}
	return result, nil
}

func (r *ReservationReadStore) LiveOccupancies(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error) {
	return repository.LoadLiveOccupancies(ctx, r.queries, r.db, resourceID, date)
}

func rowToReservationView(row query.ReservationViewRow) *queries.ReservationView {
	addOns := row.AddOns
	if addOns == nil {
		addOns = []string{}
	}
	return &queries.ReservationView{
		ID:            row.ID,
		ResourceID:    row.ResourceID,
		ResourceName:  row.ResourceName,
		UserID:        row.UserID,
		UserEmail:     row.UserEmail,
		Date:          pgconv.DateFromPgtype(row.BookingDate),
		StartTime:     formatTime(row.StartTime),
		EndTime:       formatTime(row.EndTime),
		DurationHours: row.DurationHours,
		PriceCents:    row.PriceCents,
		AddOns:        addOns,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		Note:          pgconv.StringPtrFromPgtype(row.Note),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func formatTime(t pgtype.Time) string {
	return resource.TimeOfDay(pgconv.MinutesFromPgTime(t)).String()
}
