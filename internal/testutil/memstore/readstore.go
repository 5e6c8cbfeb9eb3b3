package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

func (s *ReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	res, ok := s.store.state.reservations[id]
	if !ok {
		return nil, notFound("reservation not found")
	}
	view := &queries.ReservationView{
		ID:            res.ID(),
		ResourceID:    res.ResourceID(),
		UserID:        res.UserID(),
		Date:          res.Window().Date(),
		StartTime:     res.Window().Start().String(),
		EndTime:       res.Window().End().String(),
		DurationHours: int32(res.DurationHours()), // #nosec G115 -- bounded by a single day
		PriceCents:    res.Price().Cents(),
		AddOns:        res.AddOns(),
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		CreatedAt:     res.CreatedAt(),
		UpdatedAt:     res.UpdatedAt(),
	}
	if view.AddOns == nil {
		view.AddOns = []string{}
	}
	if !res.Note().IsEmpty() {
		note := res.Note().String()
		view.Note = &note
	}
	if r, ok := s.store.state.resources[res.ResourceID()]; ok {
		view.ResourceName = r.Name()
	}
	if u, ok := s.store.state.users[res.UserID()]; ok {
		view.UserEmail = u.Email().Value()
	}
	return view, nil
}

func (s *ReadStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	afterCreatedAt *time.Time,
	afterID *uuid.UUID,
	limit int,
) ([]*queries.ReservationListItem, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var owned []*reservation.Reservation
	for _, r := range s.store.state.reservations {
		if r.UserID() == userID {
			owned = append(owned, r)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return newerFirst(owned[i], owned[j]) })

	items := make([]*queries.ReservationListItem, 0, limit)
	for _, r := range owned {
		if afterCreatedAt != nil && afterID != nil && !isAfterKey(r, *afterCreatedAt, *afterID) {
			continue
		}
		if len(items) == limit {
			break
		}
		item := &queries.ReservationListItem{
			ID:            r.ID(),
			ResourceID:    r.ResourceID(),
			Date:          r.Window().Date(),
			StartTime:     r.Window().Start().String(),
			EndTime:       r.Window().End().String(),
			DurationHours: int32(r.DurationHours()), // #nosec G115 -- bounded by a single day
			PriceCents:    r.Price().Cents(),
			Status:        r.Status().String(),
			CreatedAt:     r.CreatedAt(),
		}
		if res, ok := s.store.state.resources[r.ResourceID()]; ok {
			item.ResourceName = res.Name()
		}
		items = append(items, item)
	}
	return items, nil
}

func newerFirst(a, b *reservation.Reservation) bool {
	if !a.CreatedAt().Equal(b.CreatedAt()) {
		return a.CreatedAt().After(b.CreatedAt())
	}
	return strings.Compare(a.ID().String(), b.ID().String()) > 0
}

// isAfterKey reports whether r sorts strictly after the (createdAt, id) key in newest-first order.
func isAfterKey(r *reservation.Reservation, createdAt time.Time, id uuid.UUID) bool {
	if !r.CreatedAt().Equal(createdAt) {
		return r.CreatedAt().Before(createdAt)
	}
	return strings.Compare(r.ID().String(), id.String()) < 0
}

func (s *ReadStore) LiveOccupancies(_ context.Context, resourceID uuid.UUID, date time.Time) ([]reservation.Occupancy, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return liveOccupancies(s.store.state, resourceID, date), nil
}

// UserReadStore adapts the user lookups to queries.UserReadStore.
type UserReadStore struct {
	store *Store
}

func (s *Store) UserReadStore() *UserReadStore {
	return &UserReadStore{store: s}
}

var _ queries.UserReadStore = (*UserReadStore)(nil)

func (s *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	u, ok := s.store.state.users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return &queries.AuthorizedUserView{
		ID:       u.ID(),
		Email:    u.Email().Value(),
		Name:     u.Name().Value(),
		Role:     u.Role().String(),
		IsActive: u.IsActive(),
	}, nil
}

// ResourceReadStore adapts the catalog to queries.ResourceReadStore.
type ResourceReadStore struct {
	store *Store
}

func (s *Store) ResourceReadStore() *ResourceReadStore {
	return &ResourceReadStore{store: s}
}

var _ queries.ResourceReadStore = (*ResourceReadStore)(nil)

func (s *ResourceReadStore) ListAvailable(_ context.Context, filter queries.ResourceFilter) ([]*queries.ResourceListItem, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	items := []*queries.ResourceListItem{}
	for _, r := range s.store.state.resources {
		if !r.IsBookable() {
			continue
		}
		if filter.SportType != "" && r.SportType() != filter.SportType {
			continue
		}
		if filter.City != "" && r.City() != filter.City {
			continue
		}
		items = append(items, &queries.ResourceListItem{
			ID:                r.ID(),
			Name:              r.Name(),
			City:              r.City(),
			Address:           r.Address(),
			SportType:         r.SportType(),
			Capacity:          int32(r.Capacity()), // #nosec G115 -- validated at construction
			PricePerHourCents: r.PricePerHourCents(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *ResourceReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	r, ok := s.store.state.resources[id]
	if !ok {
		return nil, notFound("resource not found")
	}
	return resourceView(r), nil
}

func resourceView(r *resource.Resource) *queries.ResourceView {
	view := &queries.ResourceView{
		ID:                r.ID(),
		Name:              r.Name(),
		Description:       r.Description(),
		Address:           r.Address(),
		City:              r.City(),
		SportType:         r.SportType(),
		Capacity:          int32(r.Capacity()), // #nosec G115 -- validated at construction
		PricePerHourCents: r.PricePerHourCents(),
		IsAvailable:       r.IsAvailable(),
		IsActive:          r.IsActive(),
		Timings:           []queries.WeeklyTimingView{},
		AddOns:            []queries.AddOnView{},
		CreatedAt:         r.CreatedAt(),
		UpdatedAt:         r.UpdatedAt(),
	}
	for _, t := range r.Timings() {
		view.Timings = append(view.Timings, queries.WeeklyTimingView{
			DayOfWeek:         int32(t.Weekday()),
			OpenTime:          t.Open().String(),
			CloseTime:         t.Close().String(),
			PricePerHourCents: t.OverrideRateCents(),
			IsAvailable:       t.IsAvailable(),
		})
	}
	for _, a := range r.AddOns() {
		view.AddOns = append(view.AddOns, queries.AddOnView{
			Name:                a.Name(),
			Description:         a.Description(),
			IsAvailable:         a.IsAvailable(),
			AdditionalCostCents: a.AdditionalCostCents(),
		})
	}
	return view
}
