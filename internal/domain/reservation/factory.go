package reservation

import (
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	SlotPolicy      SlotPolicy
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, policy SlotPolicy) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		SlotPolicy:      policy,
	}
}

// CreateReservation runs the booking checks in order: resource bookable, window admitted by
// the slot policy, no conflict with existing, then pricing. The result is Pending.
func (f *Factory) CreateReservation(
	res *resource.Resource,
	userID uuid.UUID,
	window Window,
	addOnNames []string,
	note Note,
	existing []Occupancy,
) (*Reservation, error) {
	now := f.Clock.Now()

	if window.StartAt().Before(now) {
		return nil, ErrWindowInPast
	}
	if !res.IsBookable() {
		return nil, ErrResourceNotBookable
	}
	if err := f.SlotPolicy.Admit(res, window); err != nil {
		return nil, err
	}
	if HasConflict(res.ID(), window, existing) {
		return nil, ErrConflict
	}

	quote, err := f.PriceCalculator.Quote(res, window, addOnNames)
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:            uuid.New(),
		resourceID:    res.ID(),
		userID:        userID,
		window:        window,
		durationHours: quote.BilledHours,
		price:         quote.Total,
		addOns:        quote.AppliedAddOns,
		status:        StatusPending,
		paymentStatus: PaymentPending,
		note:          note,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}
