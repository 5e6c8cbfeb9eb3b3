package reservation

import (
	"time"

	"turf-reservation/internal/domain/resource"
)

const DefaultSlotLength = 2 * time.Hour

// CandidateSlots lists slot start times for date, spaced by slotLength from the opening time
// while a full slot still fits before closing. A missing or unavailable timing yields no slots.
func CandidateSlots(res *resource.Resource, date time.Time, slotLength time.Duration) []resource.TimeOfDay {
	slotLength = normalizeSlotLength(slotLength)
	slots := []resource.TimeOfDay{}

	timing, ok := res.TimingFor(date.Weekday())
	if !ok || !timing.IsAvailable() {
		return slots
	}

	step := resource.TimeOfDay(slotLength / time.Minute)
	for start := timing.Open(); start+step <= timing.Close(); start += step {
		slots = append(slots, start)
	}
	return slots
}

// SlotPolicy decides whether a requested window is acceptable against opening hours.
type SlotPolicy struct {
	SlotLength      time.Duration
	StrictAlignment bool
}

func NewSlotPolicy(slotLength time.Duration, strict bool) SlotPolicy {
	return SlotPolicy{SlotLength: normalizeSlotLength(slotLength), StrictAlignment: strict}
}

// Admit checks the window against the weekday timing. In strict mode the window must also
// start on a candidate slot and span a whole number of slots.
func (p SlotPolicy) Admit(res *resource.Resource, w Window) error {
	timing, ok := res.TimingFor(w.Weekday())
	if !ok || !timing.IsAvailable() {
		return ErrClosedOnDate
	}
	if !timing.Contains(w.start, w.end) {
		return ErrOutsideOpenHours
	}
	if !p.StrictAlignment {
		return nil
	}

	slotLength := normalizeSlotLength(p.SlotLength)
	if w.Duration()%slotLength != 0 {
		return ErrNotSlotAligned
	}
	for _, s := range CandidateSlots(res, w.date, slotLength) {
		if s == w.start {
			return nil
		}
	}
	return ErrNotSlotAligned
}

func normalizeSlotLength(d time.Duration) time.Duration {
	if d < time.Minute {
		return DefaultSlotLength
	}
	return d.Truncate(time.Minute)
}
