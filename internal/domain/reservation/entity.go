package reservation

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	id            uuid.UUID
	resourceID    uuid.UUID
	userID        uuid.UUID
	window        Window
	durationHours int
	price         Money
	addOns        []string
	status        Status
	paymentStatus PaymentStatus
	note          Note
	createdAt     time.Time
	updatedAt     time.Time
}

func ReconstructReservation(
	id, resourceID, userID uuid.UUID,
	window Window,
	durationHours int,
	price Money,
	addOns []string,
	status Status,
	paymentStatus PaymentStatus,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		resourceID:    resourceID,
		userID:        userID,
		window:        window,
		durationHours: durationHours,
		price:         price,
		addOns:        addOns,
		status:        status,
		paymentStatus: paymentStatus,
		note:          note,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Cancel is legal from pending or confirmed. Price and duration are left untouched.
func (r *Reservation) Cancel(now time.Time) error {
	switch r.status {
	case StatusPending, StatusConfirmed:
		r.status = StatusCancelled
		r.updatedAt = now
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return ErrCannotCancelCompleted
	default:
		return ErrInvalidStatus
	}
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}

func (r *Reservation) RecordPayment(status PaymentStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidPaymentStatus
	}
	r.paymentStatus = status
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) Occupancy() Occupancy {
	return Occupancy{
		ReservationID: r.id,
		ResourceID:    r.resourceID,
		Window:        r.window,
		Status:        r.status,
	}
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) ResourceID() uuid.UUID        { return r.resourceID }
func (r *Reservation) UserID() uuid.UUID            { return r.userID }
func (r *Reservation) Window() Window               { return r.window }
func (r *Reservation) DurationHours() int           { return r.durationHours }
func (r *Reservation) Price() Money                 { return r.price }
func (r *Reservation) AddOns() []string             { return append([]string(nil), r.addOns...) }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) PaymentStatus() PaymentStatus { return r.paymentStatus }
func (r *Reservation) Note() Note                   { return r.note }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }
