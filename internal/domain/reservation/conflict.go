package reservation

import "github.com/google/uuid"

// Overlaps is the half-open overlap test: windows that merely touch do not overlap.
func Overlaps(a, b Window) bool {
	if !a.SameDay(b) {
		return false
	}
	return a.start < b.end && b.start < a.end
}

// HasConflict reports whether requested overlaps any live reservation on the same resource and day.
// The caller guarantees requested is non-degenerate (NewWindow enforces it).
func HasConflict(resourceID uuid.UUID, requested Window, existing []Occupancy) bool {
	for _, o := range existing {
		if !o.Status.IsLive() || o.ResourceID != resourceID {
			continue
		}
		if Overlaps(requested, o.Window) {
			return true
		}
	}
	return false
}
