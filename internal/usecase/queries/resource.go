package queries

//go:generate mockgen -destination=../../testutil/mock/queries/resource_mock.go -package=queriesmock . ResourceQueries

import (
	"context"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrResourceNotFound = errs.New("resource not found")

type ResourceQueries interface {
	ListAvailable(ctx context.Context, filter ResourceFilter) ([]*ResourceListItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	ListBookableSlots(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]SlotView, error)
}

type ResourceReadStore interface {
	ListAvailable(ctx context.Context, filter ResourceFilter) ([]*ResourceListItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
}

type OccupancyReadStore interface {
	LiveOccupancies(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error)
}

type resourceQueriesImpl struct {
	readStore  ResourceReadStore
	occupancy  OccupancyReadStore
	reads      shared.CommandReads
	clock      clock.Clock
	slotLength time.Duration
}

func NewResourceQueries(
	readStore ResourceReadStore,
	occupancy OccupancyReadStore,
	uow shared.UnitOfWork,
	clock clock.Clock,
	cfg config.Config,
) ResourceQueries {
	return &resourceQueriesImpl{
		readStore:  readStore,
		occupancy:  occupancy,
		reads:      uow.CommandReads(),
		clock:      clock,
		slotLength: cfg.Booking.SlotLength,
	}
}

func (q *resourceQueriesImpl) ListAvailable(ctx context.Context, filter ResourceFilter) ([]*ResourceListItem, error) {
	return q.readStore.ListAvailable(ctx, filter)
}

func (q *resourceQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return view, nil
}

// ListBookableSlots returns the candidate slots of date that overlap no live reservation.
// Slots already started are dropped. A closed or unbookable resource yields an empty list.
func (q *resourceQueriesImpl) ListBookableSlots(ctx context.Context, resourceID uuid.UUID, date time.Time) ([]SlotView, error) {
	res, err := q.reads.ResourceByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	slots := []SlotView{}
	if !res.IsBookable() {
		return slots, nil
	}

	starts := reservation.CandidateSlots(res, date, q.slotLength)
	if len(starts) == 0 {
		return slots, nil
	}

	existing, err := q.occupancy.LiveOccupancies(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	length := reservation.NewSlotPolicy(q.slotLength, false).SlotLength
	for _, start := range starts {
		window, err := reservation.NewWindow(date, start, start.Add(length))
		if err != nil {
			continue
		}
		if window.StartAt().Before(now) {
			continue
		}
		if reservation.HasConflict(resourceID, window, existing) {
			continue
		}
		slots = append(slots, SlotView{Start: window.Start().String(), End: window.End().String()})
	}
	return slots, nil
}
