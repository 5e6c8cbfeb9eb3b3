package converter

import (
	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

func ReservationToInfra(res *reservation.Reservation) query.CreateReservationParams {
	window := res.Window()

	addOns := res.AddOns()
	if addOns == nil {
		addOns = []string{}
	}

	return query.CreateReservationParams{
		ID:            res.ID(),
		ResourceID:    res.ResourceID(),
		UserID:        res.UserID(),
		BookingDate:   pgconv.DateToPgtype(window.Date()),
		StartTime:     pgconv.MinutesToPgTime(window.Start().Minutes()),
		EndTime:       pgconv.MinutesToPgTime(window.End().Minutes()),
		DurationHours: int32(res.DurationHours()), // #nosec G115 -- bounded by a single day
		PriceCents:    res.Price().Cents(),
		AddOns:        addOns,
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		Note:          pgconv.NullableText(res.Note().String()),
		CreatedAt:     res.CreatedAt(),
		UpdatedAt:     res.UpdatedAt(),
	}
}

func ReservationStatusToInfra(res *reservation.Reservation) query.UpdateReservationStatusParams {
	return query.UpdateReservationStatusParams{
		ID:            res.ID(),
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		UpdatedAt:     res.UpdatedAt(),
	}
}

func ReservationFromInfra(row query.Reservation) (*reservation.Reservation, error) {
	window, err := windowFromInfra(row.BookingDate, row.StartTime, row.EndTime)
	if err != nil {
		return nil, err
	}
	status, err := reservation.NewStatus(row.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := reservation.NewPaymentStatus(row.PaymentStatus)
	if err != nil {
		return nil, err
	}
	note, err := reservation.NewNote(row.Note.String)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.ResourceID,
		row.UserID,
		window,
		int(row.DurationHours),
		reservation.NewMoney(row.PriceCents),
		row.AddOns,
		status,
		paymentStatus,
		note,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func OccupancyFromInfra(row query.OccupancyRow, date pgtype.Date) (reservation.Occupancy, error) {
	window, err := windowFromInfra(date, row.StartTime, row.EndTime)
	if err != nil {
		return reservation.Occupancy{}, err
	}
	status, err := reservation.NewStatus(row.Status)
	if err != nil {
		return reservation.Occupancy{}, err
	}
	return reservation.Occupancy{
		ReservationID: row.ID,
		ResourceID:    row.ResourceID,
		Window:        window,
		Status:        status,
	}, nil
}

func windowFromInfra(date pgtype.Date, start, end pgtype.Time) (reservation.Window, error) {
	startAt, err := resource.TimeOfDayFromMinutes(pgconv.MinutesFromPgTime(start))
	if err != nil {
		return reservation.Window{}, err
	}
	endAt, err := resource.TimeOfDayFromMinutes(pgconv.MinutesFromPgTime(end))
	if err != nil {
		return reservation.Window{}, err
	}
	return reservation.NewWindow(pgconv.DateFromPgtype(date), startAt, endAt)
}
