package memstore

import (
	"context"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type memTx struct {
	state *state
}

func (t *memTx) Resources() shared.ResourceRepository       { return &resourceRepo{state: t.state} }
func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{state: t.state} }
func (t *memTx) Users() shared.UserRepository               { return &userRepo{state: t.state} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return &idempotencyRepo{state: t.state} }
func (t *memTx) Notifications() shared.NotificationRepository {
	return &notificationRepo{state: t.state}
}
func (t *memTx) Reads() shared.CommandReads { return &stateReads{state: t.state} }

type resourceRepo struct {
	state *state
}

// LockForBooking only checks existence; the store mutex already serializes transactions.
func (r *resourceRepo) LockForBooking(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.resources[id]; !ok {
		return notFound("resource not found")
	}
	return nil
}

type reservationRepo struct {
	state *state
}

// Create enforces the same no-overlap rule as the database exclusion constraint.
func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.state.reservations[res.ID()]; ok {
		return infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	if _, ok := r.state.resources[res.ResourceID()]; !ok {
		return infra.WrapRepoErr("resource does not exist", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := r.state.users[res.UserID()]; !ok {
		return infra.WrapRepoErr("user does not exist", nil, infra.KindForeignKeyViolated)
	}

	existing := liveOccupancies(r.state, res.ResourceID(), res.Window().Date())
	if reservation.HasConflict(res.ResourceID(), res.Window(), existing) {
		return infra.WrapRepoErr("reservation overlaps a live reservation", nil, infra.KindConflict)
	}

	r.state.reservations[res.ID()] = copyReservation(res)
	return nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.state.reservations[res.ID()]; !ok {
		return notFound("reservation not found")
	}
	r.state.reservations[res.ID()] = copyReservation(res)
	return nil
}

func (r *reservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.state.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return copyReservation(res), nil
}

func (r *reservationRepo) LiveOccupancies(_ context.Context, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error) {
	return liveOccupancies(r.state, resourceID, date), nil
}

type userRepo struct {
	state *state
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.state.users {
		if existing.Email().Value() == u.Email().Value() {
			return infra.WrapRepoErr("email already registered", nil, infra.KindDuplicateKey)
		}
	}
	r.state.users[u.ID()] = u
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	u, ok := r.state.users[userID]
	if !ok {
		return notFound("user not found")
	}
	r.state.users[userID] = withUser(u, u.RefreshToken(), u.RefreshTokenExpiry(), &at, at)
	return nil
}

func (r *userRepo) StoreRefreshToken(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	u, ok := r.state.users[userID]
	if !ok {
		return notFound("user not found")
	}
	r.state.users[userID] = withUser(u, &token, &expiresAt, u.LastLogin(), u.UpdatedAt())
	return nil
}

func (r *userRepo) RotateRefreshToken(_ context.Context, presented, next string, nextExpiresAt, now time.Time) (*user.User, error) {
	for id, u := range r.state.users {
		if !u.HasLiveRefreshToken(presented, now) {
			continue
		}
		rotated := withUser(u, &next, &nextExpiresAt, u.LastLogin(), now)
		r.state.users[id] = rotated
		return rotated, nil
	}
	return nil, notFound("refresh token not found")
}

func (r *userRepo) ClearRefreshToken(_ context.Context, presented string) (uuid.UUID, error) {
	for id, u := range r.state.users {
		if u.RefreshToken() == nil || *u.RefreshToken() != presented {
			continue
		}
		r.state.users[id] = withUser(u, nil, nil, u.LastLogin(), u.UpdatedAt())
		return id, nil
	}
	return uuid.Nil, notFound("refresh token not found")
}

func withUser(u *user.User, token *string, expiry *time.Time, lastLogin *time.Time, updatedAt time.Time) *user.User {
	return user.ReconstructUser(
		u.ID(), u.Email(), u.Name(), u.PasswordHash(), u.Role(),
		token, expiry, lastLogin, u.IsActive(), u.CreatedAt(), updatedAt,
	)
}

type idempotencyRepo struct {
	state *state
}

func (r *idempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	k := idempotencyKey{key: key, userID: userID}
	if _, ok := r.state.idempotency[k]; ok {
		return false, nil
	}
	r.state.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *idempotencyRepo) MarkCompleted(_ context.Context, key, userID, reservationID uuid.UUID) error {
	k := idempotencyKey{key: key, userID: userID}
	rec, ok := r.state.idempotency[k]
	if !ok {
		return notFound("idempotency key not found")
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ResultReservationID = &reservationID
	r.state.idempotency[k] = rec
	return nil
}

func (r *idempotencyRepo) ClaimExpired(_ context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	k := idempotencyKey{key: key, userID: userID}
	rec, ok := r.state.idempotency[k]
	if !ok || rec.ExpiresAt.After(now) {
		return false, nil
	}
	r.state.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Endpoint:    rec.Endpoint,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

type notificationRepo struct {
	state *state
}

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.state.jobs = append(r.state.jobs, Job{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: append([]byte(nil), payload...),
		RunAt:   runAt,
	})
	return nil
}
