// Package memstore is an in-memory implementation of the persistence ports. Transactions are
// serialized by one store-wide mutex and work on a copy that replaces the state on commit.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/usecase/queries"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type idempotencyKey struct {
	key    uuid.UUID
	userID uuid.UUID
}

// Job is an enqueued outbox row.
type Job struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type state struct {
	resources    map[uuid.UUID]*resource.Resource
	reservations map[uuid.UUID]*reservation.Reservation
	users        map[uuid.UUID]*user.User
	idempotency  map[idempotencyKey]shared.IdempotencyRecord
	jobs         []Job
}

func newState() *state {
	return &state{
		resources:    make(map[uuid.UUID]*resource.Resource),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		users:        make(map[uuid.UUID]*user.User),
		idempotency:  make(map[idempotencyKey]shared.IdempotencyRecord),
	}
}

// clone copies the maps; entities are replaced, never mutated in place, so pointers can be shared.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	c.jobs = append([]Job(nil), s.jobs...)
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(ctx, &memTx{state: working}); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &lockedReads{store: s}
}

func (s *Store) SeedResource(res *resource.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.resources[res.ID()] = res
}

func (s *Store) SeedUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID()] = u
}

func (s *Store) SeedReservation(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reservations[res.ID()] = copyReservation(res)
}

func (s *Store) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Job(nil), s.state.jobs...)
}

func (s *Store) User(id uuid.UUID) (*user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.state.users[id]
	return u, ok
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.state.reservations[id]
	if !ok {
		return nil, false
	}
	return copyReservation(res), true
}

func (s *Store) CountLiveReservations(resourceID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.state.reservations {
		if r.ResourceID() == resourceID && r.Status().IsLive() {
			n++
		}
	}
	return n
}

func copyReservation(res *reservation.Reservation) *reservation.Reservation {
	c := *res
	return &c
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// lockedReads serves CommandReads outside of a transaction.
type lockedReads struct {
	store *Store
}

func (r *lockedReads) reads() *stateReads {
	return &stateReads{state: r.store.state}
}

func (r *lockedReads) ResourceByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.reads().ResourceByID(ctx, id)
}

func (r *lockedReads) ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.reads().ReservationByID(ctx, id)
}

func (r *lockedReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.reads().IdempotencyByKey(ctx, key, userID)
}

func (r *lockedReads) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.reads().UserByEmail(ctx, email)
}

func (r *lockedReads) UserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.reads().UserByID(ctx, id)
}

type stateReads struct {
	state *state
}

func (r *stateReads) ResourceByID(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	res, ok := r.state.resources[id]
	if !ok {
		return nil, notFound("resource not found")
	}
	return res, nil
}

func (r *stateReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.state.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	return copyReservation(res), nil
}

func (r *stateReads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.state.idempotency[idempotencyKey{key: key, userID: userID}]
	if !ok {
		return nil, notFound("idempotency key not found")
	}
	return &rec, nil
}

func (r *stateReads) UserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.state.users {
		if u.Email().Value() == email {
			return u, nil
		}
	}
	return nil, notFound("user not found")
}

func (r *stateReads) UserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.state.users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return u, nil
}

func liveOccupancies(st *state, resourceID uuid.UUID, date time.Time) []reservation.Occupancy {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	var out []reservation.Occupancy
	for _, r := range st.reservations {
		if r.ResourceID() != resourceID || !r.Status().IsLive() {
			continue
		}
		if !r.Window().Date().Equal(day) {
			continue
		}
		out = append(out, r.Occupancy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start() < out[j].Window.Start() })
	return out
}

// ReadStore exposes the query-side ports over the same state.
type ReadStore struct {
	store *Store
}

func (s *Store) ReadStore() *ReadStore {
	return &ReadStore{store: s}
}

var (
	_ queries.ReservationReadStore = (*ReadStore)(nil)
	_ queries.OccupancyReadStore   = (*ReadStore)(nil)
)
