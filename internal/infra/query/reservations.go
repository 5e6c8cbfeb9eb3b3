package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `r.id, r.resource_id, r.user_id, r.booking_date, r.start_time, r.end_time,
	r.duration_hours, r.price_cents, r.add_ons, r.status, r.payment_status, r.note,
	r.created_at, r.updated_at`

func reservationDest(r *Reservation) []any {
	return []any{
		&r.ID,
		&r.ResourceID,
		&r.UserID,
		&r.BookingDate,
		&r.StartTime,
		&r.EndTime,
		&r.DurationHours,
		&r.PriceCents,
		&r.AddOns,
		&r.Status,
		&r.PaymentStatus,
		&r.Note,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

type CreateReservationParams struct {
	ID            uuid.UUID
	ResourceID    uuid.UUID
	UserID        uuid.UUID
	BookingDate   pgtype.Date
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	DurationHours int32
	PriceCents    int64
	AddOns        []string
	Status        string
	PaymentStatus string
	Note          pgtype.Text
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const createReservation = `-- name: CreateReservation :exec
INSERT INTO reservations (
    id, resource_id, user_id, booking_date, start_time, end_time, duration_hours,
    price_cents, add_ons, status, payment_status, note, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

func (q *Queries) CreateReservation(ctx context.Context, db DBTX, arg CreateReservationParams) error {
	_, err := db.Exec(ctx, createReservation,
		arg.ID,
		arg.ResourceID,
		arg.UserID,
		arg.BookingDate,
		arg.StartTime,
		arg.EndTime,
		arg.DurationHours,
		arg.PriceCents,
		arg.AddOns,
		arg.Status,
		arg.PaymentStatus,
		arg.Note,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

type UpdateReservationStatusParams struct {
	ID            uuid.UUID
	Status        string
	PaymentStatus string
	UpdatedAt     time.Time
}

const updateReservationStatus = `-- name: UpdateReservationStatus :execrows
UPDATE reservations SET status = $2, payment_status = $3, updated_at = $4 WHERE id = $1`

func (q *Queries) UpdateReservationStatus(ctx context.Context, db DBTX, arg UpdateReservationStatusParams) (int64, error) {
	tag, err := db.Exec(ctx, updateReservationStatus, arg.ID, arg.Status, arg.PaymentStatus, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const findReservationByIDForUpdate = `-- name: FindReservationByIDForUpdate :one
SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1 FOR UPDATE`

func (q *Queries) FindReservationByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	var r Reservation
	err := db.QueryRow(ctx, findReservationByIDForUpdate, id).Scan(reservationDest(&r)...)
	return r, err
}

const findReservationByID = `-- name: FindReservationByID :one
SELECT ` + reservationColumns + ` FROM reservations r WHERE r.id = $1`

func (q *Queries) FindReservationByID(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	var r Reservation
	err := db.QueryRow(ctx, findReservationByID, id).Scan(reservationDest(&r)...)
	return r, err
}

type ReservationViewRow struct {
	Reservation
	ResourceName string
	UserEmail    string
}

const getReservationView = `-- name: GetReservationView :one
SELECT ` + reservationColumns + `, res.name, u.email
FROM reservations r
JOIN resources res ON res.id = r.resource_id
JOIN users u ON u.id = r.user_id
WHERE r.id = $1`

func (q *Queries) GetReservationView(ctx context.Context, db DBTX, id uuid.UUID) (ReservationViewRow, error) {
	var row ReservationViewRow
	dest := append(reservationDest(&row.Reservation), &row.ResourceName, &row.UserEmail)
	err := db.QueryRow(ctx, getReservationView, id).Scan(dest...)
	return row, err
}

type ListReservationsByUserParams struct {
	UserID         uuid.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        pgtype.UUID
	Limit          int32
}

type ReservationListRow struct {
	ID            uuid.UUID
	ResourceID    uuid.UUID
	ResourceName  string
	BookingDate   pgtype.Date
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	DurationHours int32
	PriceCents    int64
	Status        string
	CreatedAt     time.Time
}

// Keyset pagination, newest first. A NULL cursor starts at the top.
const listReservationsByUser = `-- name: ListReservationsByUser :many
SELECT r.id, r.resource_id, res.name, r.booking_date, r.start_time, r.end_time,
       r.duration_hours, r.price_cents, r.status, r.created_at
FROM reservations r
JOIN resources res ON res.id = r.resource_id
WHERE r.user_id = $1
  AND ($2::timestamptz IS NULL OR (r.created_at, r.id) < ($2::timestamptz, $3::uuid))
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

func (q *Queries) ListReservationsByUser(ctx context.Context, db DBTX, arg ListReservationsByUserParams) ([]ReservationListRow, error) {
	rows, err := db.Query(ctx, listReservationsByUser, arg.UserID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReservationListRow
	for rows.Next() {
		var i ReservationListRow
		if err := rows.Scan(
			&i.ID,
			&i.ResourceID,
			&i.ResourceName,
			&i.BookingDate,
			&i.StartTime,
			&i.EndTime,
			&i.DurationHours,
			&i.PriceCents,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type OccupancyRow struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	StartTime  pgtype.Time
	EndTime    pgtype.Time
	Status     string
}

const listLiveOccupancies = `-- name: ListLiveOccupancies :many
SELECT id, resource_id, start_time, end_time, status
FROM reservations
WHERE resource_id = $1 AND booking_date = $2 AND status <> 'cancelled'
ORDER BY start_time`

func (q *Queries) ListLiveOccupancies(ctx context.Context, db DBTX, resourceID uuid.UUID, bookingDate pgtype.Date) ([]OccupancyRow, error) {
	rows, err := db.Query(ctx, listLiveOccupancies, resourceID, bookingDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OccupancyRow
	for rows.Next() {
		var i OccupancyRow
		if err := rows.Scan(&i.ID, &i.ResourceID, &i.StartTime, &i.EndTime, &i.Status); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
