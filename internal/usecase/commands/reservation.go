package commands

//go:generate mockgen -destination=../../testutil/mock/commands/reservation_mock.go -package=commandsmock . ReservationCommands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound      = errs.New("resource not found")
	ErrReservationNotFound   = errs.New("reservation not found")
	ErrReservationConflict   = errs.New("reservation conflict")
	ErrResourceNotAvailable  = errs.New("resource not available")
	ErrIllegalState          = errs.New("illegal reservation state")
	ErrInvalidInput          = errs.New("invalid input")
	ErrIdempotencyKeyReused  = errs.New("idempotency key reused with a different request")
	ErrIdempotencyKeyMissing = errs.New("idempotency key missing result")
)

const createReservationEndpoint = "POST /reservations"

// CreateReservationInput carries the raw booking request; times are "HH:MM" on Date (UTC).
type CreateReservationInput struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	AddOns     []string  `json:"add_ons"`
	Note       *string   `json:"note,omitempty"`
}

type CreateReservationResult struct {
	ReservationID uuid.UUID
	IsReplayed    bool
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, input CreateReservationInput, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error
	ConfirmReservation(ctx context.Context, reservationID uuid.UUID) error
	CompleteReservation(ctx context.Context, reservationID uuid.UUID) error
	RecordPayment(ctx context.Context, reservationID uuid.UUID, status string) error
}

type reservationCommandsImpl struct {
	uow            shared.UnitOfWork
	factory        *reservation.Factory
	clock          clock.Clock
	idempotencyTTL time.Duration
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	clock clock.Clock,
	cfg config.Config,
) ReservationCommands {
	ttl := cfg.Booking.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &reservationCommandsImpl{
		uow:            uow,
		factory:        factory,
		clock:          clock,
		idempotencyTTL: ttl,
	}
}

type bookingRequest struct {
	window reservation.Window
	addOns []string
	note   reservation.Note
}

func (in CreateReservationInput) toDomain() (bookingRequest, error) {
	start, err := resource.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return bookingRequest{}, err
	}
	end, err := resource.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return bookingRequest{}, err
	}
	window, err := reservation.NewWindow(in.Date, start, end)
	if err != nil {
		return bookingRequest{}, err
	}

	var note reservation.Note
	if in.Note != nil {
		note, err = reservation.NewNote(*in.Note)
		if err != nil {
			return bookingRequest{}, err
		}
	}

	return bookingRequest{window: window, addOns: in.AddOns, note: note}, nil
}

// CreateReservation books the window inside one transaction. The idempotency key is claimed in
// the same transaction, so a rolled back booking leaves the key free for a retry.
func (r *reservationCommandsImpl) CreateReservation(
	ctx context.Context,
	input CreateReservationInput,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	req, err := input.toDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInput)
	}

	requestHash := calculateRequestHash(input)

	var result *CreateReservationResult
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil
		now := r.clock.Now()

		replayID, err := r.claimIdempotencyKey(ctx, tx, idempotencyKey, userID, requestHash, now)
		if err != nil {
			return err
		}
		if replayID != nil {
			result = &CreateReservationResult{ReservationID: *replayID, IsReplayed: true}
			return nil
		}

		created, err := r.book(ctx, tx, input.ResourceID, userID, req)
		if err != nil {
			return err
		}

		if err := r.enqueueEvent(ctx, tx, shared.TopicReservationCreated, created); err != nil {
			return err
		}

		if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, userID, created.ID()); err != nil {
			return err
		}

		result = &CreateReservationResult{ReservationID: created.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claimIdempotencyKey returns the stored reservation id when the request is a replay.
func (r *reservationCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	requestHash string,
	now time.Time,
) (*uuid.UUID, error) {
	expiresAt := now.Add(r.idempotencyTTL)

	inserted, err := tx.Idempotency().TryInsert(ctx, key, userID, createReservationEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, err
	}

	if !existing.ExpiresAt.After(now) {
		claimed, err := tx.Idempotency().ClaimExpired(ctx, key, userID, requestHash, now, expiresAt)
		if err != nil {
			return nil, err
		}
		if claimed {
			return nil, nil
		}
	}

	if existing.RequestHash != requestHash {
		return nil, ErrIdempotencyKeyReused
	}
	if existing.Status == shared.IdempotencyStatusCompleted && existing.ResultReservationID != nil {
		return existing.ResultReservationID, nil
	}
	return nil, ErrIdempotencyKeyMissing
}

func (r *reservationCommandsImpl) book(
	ctx context.Context,
	tx shared.Tx,
	resourceID, userID uuid.UUID,
	req bookingRequest,
) (*reservation.Reservation, error) {
	if err := tx.Resources().LockForBooking(ctx, resourceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	res, err := tx.Reads().ResourceByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	existing, err := tx.Reservations().LiveOccupancies(ctx, resourceID, req.window.Date())
	if err != nil {
		return nil, err
	}

	created, err := r.factory.CreateReservation(res, userID, req.window, req.addOns, req.note, existing)
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := tx.Reservations().Create(ctx, created); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(reservation.ErrConflict, ErrReservationConflict)
		}
		return nil, err
	}

	slog.Info("reservation created",
		"reservation_id", created.ID(),
		"resource_id", resourceID,
		"user_id", userID,
		"window", req.window.String(),
		"price_cents", created.Price().Cents())

	return created, nil
}

func (r *reservationCommandsImpl) CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error {
	return r.transition(ctx, reservationID, shared.TopicReservationCancelled, func(res *reservation.Reservation, now time.Time) error {
		// Another requester's reservation is reported as absent.
		if !res.IsOwnedBy(userID) {
			return ErrReservationNotFound
		}
		return res.Cancel(now)
	})
}

func (r *reservationCommandsImpl) ConfirmReservation(ctx context.Context, reservationID uuid.UUID) error {
	return r.transition(ctx, reservationID, shared.TopicReservationConfirmed, func(res *reservation.Reservation, now time.Time) error {
		return res.Confirm(now)
	})
}

func (r *reservationCommandsImpl) CompleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	return r.transition(ctx, reservationID, shared.TopicReservationCompleted, func(res *reservation.Reservation, now time.Time) error {
		return res.Complete(now)
	})
}

func (r *reservationCommandsImpl) RecordPayment(ctx context.Context, reservationID uuid.UUID, status string) error {
	paymentStatus, err := reservation.NewPaymentStatus(status)
	if err != nil {
		return errs.Mark(err, ErrInvalidInput)
	}
	return r.transition(ctx, reservationID, shared.TopicReservationPayment, func(res *reservation.Reservation, now time.Time) error {
		return res.RecordPayment(paymentStatus, now)
	})
}

// transition loads the reservation under a row lock, applies change and persists the new status.
func (r *reservationCommandsImpl) transition(
	ctx context.Context,
	reservationID uuid.UUID,
	topic string,
	change func(res *reservation.Reservation, now time.Time) error,
) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if err := change(res, r.clock.Now()); err != nil {
			return mapDomainError(err)
		}

		if err := tx.Reservations().UpdateStatus(ctx, res); err != nil {
			return err
		}

		return r.enqueueEvent(ctx, tx, topic, res)
	})
}

type reservationEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ResourceID    uuid.UUID `json:"resource_id"`
	UserID        uuid.UUID `json:"user_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	PriceCents    int64     `json:"price_cents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (r *reservationCommandsImpl) enqueueEvent(ctx context.Context, tx shared.Tx, topic string, res *reservation.Reservation) error {
	now := r.clock.Now()
	window := res.Window()
	payload, err := json.Marshal(reservationEvent{
		ReservationID: res.ID(),
		ResourceID:    res.ResourceID(),
		UserID:        res.UserID(),
		Date:          window.Date().Format(time.DateOnly),
		StartTime:     window.Start().String(),
		EndTime:       window.End().String(),
		PriceCents:    res.Price().Cents(),
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		OccurredAt:    now,
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal reservation event")
	}

	return tx.Notifications().CreateJob(ctx, shared.NotificationKindEvent, topic, payload, now)
}

// mapDomainError attaches the caller-facing kind to a domain error, keeping its message.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, reservation.ErrConflict):
		return errs.Mark(err, ErrReservationConflict)
	case errors.Is(err, reservation.ErrNotAvailable):
		return errs.Mark(err, ErrResourceNotAvailable)
	case errors.Is(err, reservation.ErrIllegalTransition):
		return errs.Mark(err, ErrIllegalState)
	case errors.Is(err, reservation.ErrInvalidInput):
		return errs.Mark(err, ErrInvalidInput)
	default:
		return err
	}
}

func calculateRequestHash(input CreateReservationInput) string {
	normalized := input
	normalized.Date = input.Date.UTC().Truncate(24 * time.Hour)
	normalized.AddOns = make([]string, 0, len(input.AddOns))
	for _, name := range input.AddOns {
		normalized.AddOns = append(normalized.AddOns, strings.ToLower(strings.TrimSpace(name)))
	}
	slices.Sort(normalized.AddOns)

	data, _ := json.Marshal(normalized)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
