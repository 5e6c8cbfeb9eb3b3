package resource

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM between 00:00 and 24:00")
	ErrInvalidOpenHours = errors.New("open time must be before close time")
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrNegativeRate     = errors.New("rate cannot be negative")
	ErrNegativeCost     = errors.New("additional cost cannot be negative")
	ErrEmptyAddOnName   = errors.New("add-on name cannot be empty")
)

const (
	minutesPerDay = 24 * 60
	EndOfDay      = TimeOfDay(minutesPerDay)
)

// TimeOfDay is a wall-clock time as minutes since midnight. 24:00 is allowed as a closing time.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	t := TimeOfDay(hour*60 + minute)
	if t > EndOfDay {
		return 0, ErrInvalidTimeOfDay
	}
	return t, nil
}

func TimeOfDayFromMinutes(minutes int) (TimeOfDay, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(minutes), nil
}

// ParseTimeOfDay accepts exactly HH:MM with two ASCII digits on each side.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTimeOfDay
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidTimeOfDay
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Minute)
}

// On anchors the time of day to the calendar day of date (UTC).
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(t.Duration())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func TimeOfDayFromTime(ts time.Time) TimeOfDay {
	return TimeOfDay(ts.Hour()*60 + ts.Minute())
}

// WeeklyTiming is the opening window for one weekday.
type WeeklyTiming struct {
	weekday           time.Weekday
	open              TimeOfDay
	close             TimeOfDay
	overrideRateCents *int64
	isAvailable       bool
}

func NewWeeklyTiming(weekday time.Weekday, openAt, closeAt TimeOfDay, overrideRateCents *int64, isAvailable bool) (WeeklyTiming, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return WeeklyTiming{}, ErrInvalidWeekday
	}
	if openAt < 0 || closeAt > EndOfDay || openAt >= closeAt {
		return WeeklyTiming{}, ErrInvalidOpenHours
	}
	if overrideRateCents != nil && *overrideRateCents < 0 {
		return WeeklyTiming{}, ErrNegativeRate
	}
	return WeeklyTiming{
		weekday:           weekday,
		open:              openAt,
		close:             closeAt,
		overrideRateCents: overrideRateCents,
		isAvailable:       isAvailable,
	}, nil
}

// Contains reports whether [start,end) lies within the opening window.
func (w WeeklyTiming) Contains(start, end TimeOfDay) bool {
	return start >= w.open && end <= w.close
}

func (w WeeklyTiming) Weekday() time.Weekday     { return w.weekday }
func (w WeeklyTiming) Open() TimeOfDay           { return w.open }
func (w WeeklyTiming) Close() TimeOfDay          { return w.close }
func (w WeeklyTiming) OverrideRateCents() *int64 { return w.overrideRateCents }
func (w WeeklyTiming) IsAvailable() bool         { return w.isAvailable }

// AddOn is an optional extra charged once per reservation.
type AddOn struct {
	name                string
	description         string
	isAvailable         bool
	additionalCostCents *int64
}

func NewAddOn(name, description string, isAvailable bool, additionalCostCents *int64) (AddOn, error) {
	if name == "" {
		return AddOn{}, ErrEmptyAddOnName
	}
	if additionalCostCents != nil && *additionalCostCents < 0 {
		return AddOn{}, ErrNegativeCost
	}
	return AddOn{
		name:                name,
		description:         description,
		isAvailable:         isAvailable,
		additionalCostCents: additionalCostCents,
	}, nil
}

// CostCents is the flat charge, zero when no cost is configured.
func (a AddOn) CostCents() int64 {
	if a.additionalCostCents == nil {
		return 0
	}
	return *a.additionalCostCents
}

func (a AddOn) Name() string                { return a.name }
func (a AddOn) Description() string         { return a.description }
func (a AddOn) IsAvailable() bool           { return a.isAvailable }
func (a AddOn) AdditionalCostCents() *int64 { return a.additionalCostCents }
