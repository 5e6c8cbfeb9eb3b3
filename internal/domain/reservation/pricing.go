package reservation

import (
	"turf-reservation/internal/domain/resource"
)

// Quote is the breakdown behind a reservation price.
type Quote struct {
	BilledHours   int
	HourlyRate    Money
	BaseAmount    Money
	AddOnAmount   Money
	Total         Money
	AppliedAddOns []string
}

type PriceCalculator interface {
	Quote(res *resource.Resource, w Window, addOnNames []string) (Quote, error)
}

type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

// Quote prices ceil(hours) at the weekday override rate when that timing is available,
// otherwise at the base rate. Each available selected add-on adds its flat cost once.
// Names that match no add-on fail with ErrUnknownAddOn.
func (pc *DefaultPriceCalculator) Quote(res *resource.Resource, w Window, addOnNames []string) (Quote, error) {
	hours := w.BilledHours()
	rate := NewMoney(hourlyRateCents(res, w))
	base := rate.Times(int64(hours))

	addOnTotal := NewMoney(0)
	applied := make([]string, 0, len(addOnNames))
	seen := make(map[string]struct{}, len(addOnNames))
	for _, name := range addOnNames {
		addOn, ok := res.AddOnByName(name)
		if !ok {
			return Quote{}, ErrUnknownAddOn
		}
		if _, dup := seen[addOn.Name()]; dup {
			continue
		}
		seen[addOn.Name()] = struct{}{}
		if !addOn.IsAvailable() {
			continue
		}
		addOnTotal = addOnTotal.Add(NewMoney(addOn.CostCents()))
		applied = append(applied, addOn.Name())
	}

	return Quote{
		BilledHours:   hours,
		HourlyRate:    rate,
		BaseAmount:    base,
		AddOnAmount:   addOnTotal,
		Total:         base.Add(addOnTotal),
		AppliedAddOns: applied,
	}, nil
}

func hourlyRateCents(res *resource.Resource, w Window) int64 {
	if timing, ok := res.TimingFor(w.Weekday()); ok && timing.IsAvailable() && timing.OverrideRateCents() != nil {
		return *timing.OverrideRateCents()
	}
	return res.PricePerHourCents()
}
