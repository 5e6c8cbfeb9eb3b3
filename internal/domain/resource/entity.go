package resource

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrNegativeCapacity    = errors.New("capacity cannot be negative")
	ErrDuplicateTiming     = errors.New("at most one timing per weekday")
	ErrDuplicateAddOn      = errors.New("add-on names must be unique per resource")
)

const (
	MaxResourceNameLength = 255
)

// Resource is a bookable turf as the catalog describes it. The booking core only reads it.
type Resource struct {
	id                uuid.UUID
	name              string
	description       string
	address           string
	city              string
	sportType         string
	capacity          int
	pricePerHourCents int64
	isAvailable       bool
	isActive          bool
	timings           []WeeklyTiming
	addOns            []AddOn
	createdAt         time.Time
	updatedAt         time.Time
}

type Params struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Address           string
	City              string
	SportType         string
	Capacity          int
	PricePerHourCents int64
	IsAvailable       bool
	IsActive          bool
	Timings           []WeeklyTiming
	AddOns            []AddOn
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewResource(p Params) (*Resource, error) {
	if err := validateResourceName(p.Name); err != nil {
		return nil, err
	}
	if p.Capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	if p.PricePerHourCents < 0 {
		return nil, ErrNegativeRate
	}

	timings := make([]WeeklyTiming, len(p.Timings))
	copy(timings, p.Timings)
	sort.Slice(timings, func(i, j int) bool { return timings[i].weekday < timings[j].weekday })
	for i := 1; i < len(timings); i++ {
		if timings[i].weekday == timings[i-1].weekday {
			return nil, ErrDuplicateTiming
		}
	}

	seen := make(map[string]struct{}, len(p.AddOns))
	for _, a := range p.AddOns {
		key := strings.ToLower(a.name)
		if _, dup := seen[key]; dup {
			return nil, ErrDuplicateAddOn
		}
		seen[key] = struct{}{}
	}
	addOns := make([]AddOn, len(p.AddOns))
	copy(addOns, p.AddOns)

	return &Resource{
		id:                p.ID,
		name:              strings.TrimSpace(p.Name),
		description:       p.Description,
		address:           p.Address,
		city:              p.City,
		sportType:         p.SportType,
		capacity:          p.Capacity,
		pricePerHourCents: p.PricePerHourCents,
		isAvailable:       p.IsAvailable,
		isActive:          p.IsActive,
		timings:           timings,
		addOns:            addOns,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

// IsBookable is true only when the resource is both active and available.
func (r *Resource) IsBookable() bool {
	return r.isActive && r.isAvailable
}

func (r *Resource) TimingFor(day time.Weekday) (WeeklyTiming, bool) {
	for _, t := range r.timings {
		if t.weekday == day {
			return t, true
		}
	}
	return WeeklyTiming{}, false
}

// AddOnByName matches case-insensitively after trimming.
func (r *Resource) AddOnByName(name string) (AddOn, bool) {
	name = strings.TrimSpace(name)
	for _, a := range r.addOns {
		if strings.EqualFold(a.name, name) {
			return a, true
		}
	}
	return AddOn{}, false
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID            { return r.id }
func (r *Resource) Name() string             { return r.name }
func (r *Resource) Description() string      { return r.description }
func (r *Resource) Address() string          { return r.address }
func (r *Resource) City() string             { return r.city }
func (r *Resource) SportType() string        { return r.sportType }
func (r *Resource) Capacity() int            { return r.capacity }
func (r *Resource) PricePerHourCents() int64 { return r.pricePerHourCents }
func (r *Resource) IsAvailable() bool        { return r.isAvailable }
func (r *Resource) IsActive() bool           { return r.isActive }
func (r *Resource) Timings() []WeeklyTiming  { return append([]WeeklyTiming(nil), r.timings...) }
func (r *Resource) AddOns() []AddOn          { return append([]AddOn(nil), r.addOns...) }
func (r *Resource) CreatedAt() time.Time     { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time     { return r.updatedAt }
