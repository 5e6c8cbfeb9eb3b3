//go:build unit || e2e

package builder

import (
	"time"

	"turf-reservation/internal/domain/resource"

	"github.com/google/uuid"
)

type TimingSpec struct {
	Weekday     time.Weekday
	Open        string
	Close       string
	RateCents   *int64
	IsAvailable bool
}

type AddOnSpec struct {
	Name        string
	Description string
	CostCents   *int64
	IsAvailable bool
}

// ResourceBuilder defaults to "Court A": Monday 06:00-22:00, 1000.00/hour and a 200.00 Floodlights add-on.
type ResourceBuilder struct {
	ID                uuid.UUID
	Name              string
	City              string
	SportType         string
	Capacity          int
	PricePerHourCents int64
	IsAvailable       bool
	IsActive          bool
	Timings           []TimingSpec
	AddOns            []AddOnSpec
}

func Cents(v int64) *int64 {
	return &v
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:                uuid.New(),
		Name:              "Court A",
		City:              "Pune",
		SportType:         "football",
		Capacity:          14,
		PricePerHourCents: 100000,
		IsAvailable:       true,
		IsActive:          true,
		Timings: []TimingSpec{
			{Weekday: time.Monday, Open: "06:00", Close: "22:00", IsAvailable: true},
		},
		AddOns: []AddOnSpec{
			{Name: "Floodlights", Description: "Night lighting", CostCents: Cents(20000), IsAvailable: true},
		},
	}
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

func (b *ResourceBuilder) OpenEveryDay(open, close string) *ResourceBuilder {
	b.Timings = nil
	for d := time.Sunday; d <= time.Saturday; d++ {
		b.Timings = append(b.Timings, TimingSpec{Weekday: d, Open: open, Close: close, IsAvailable: true})
	}
	return b
}

func (b *ResourceBuilder) AsInactive() *ResourceBuilder {
	b.IsActive = false
	return b
}

// MustBuildDomain panics on invalid input; builders are only fed literals.
func (b *ResourceBuilder) MustBuildDomain() *resource.Resource {
	res, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return res
}

func (b *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	timings := make([]resource.WeeklyTiming, 0, len(b.Timings))
	for _, def := range b.Timings {
		openAt, err := resource.ParseTimeOfDay(def.Open)
		if err != nil {
			return nil, err
		}
		closeAt, err := resource.ParseTimeOfDay(def.Close)
		if err != nil {
			return nil, err
		}
		timing, err := resource.NewWeeklyTiming(def.Weekday, openAt, closeAt, def.RateCents, def.IsAvailable)
		if err != nil {
			return nil, err
		}
		timings = append(timings, timing)
	}

	addOns := make([]resource.AddOn, 0, len(b.AddOns))
	for _, def := range b.AddOns {
		addOn, err := resource.NewAddOn(def.Name, def.Description, def.IsAvailable, def.CostCents)
		if err != nil {
			return nil, err
		}
		addOns = append(addOns, addOn)
	}

	now := time.Now().UTC()
	return resource.NewResource(resource.Params{
		ID:                b.ID,
		Name:              b.Name,
		City:              b.City,
		SportType:         b.SportType,
		Capacity:          b.Capacity,
		PricePerHourCents: b.PricePerHourCents,
		IsAvailable:       b.IsAvailable,
		IsActive:          b.IsActive,
		Timings:           timings,
		AddOns:            addOns,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
}
