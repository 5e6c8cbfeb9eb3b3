//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func window(t *testing.T, date time.Time, start, end string) reservation.Window {
	t.Helper()
	s, err := resource.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := resource.ParseTimeOfDay(end)
	require.NoError(t, err)
	w, err := reservation.NewWindow(date, s, e)
	require.NoError(t, err)
	return w
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    [2]string
		b    [2]string
		want bool
	}{
		{name: "identical", a: [2]string{"10:00", "12:00"}, b: [2]string{"10:00", "12:00"}, want: true},
		{name: "partial overlap", a: [2]string{"10:00", "12:00"}, b: [2]string{"11:00", "13:00"}, want: true},
		{name: "containment", a: [2]string{"10:00", "14:00"}, b: [2]string{"11:00", "12:00"}, want: true},
		{name: "touching at end", a: [2]string{"10:00", "12:00"}, b: [2]string{"12:00", "14:00"}, want: false},
		{name: "disjoint", a: [2]string{"06:00", "08:00"}, b: [2]string{"20:00", "22:00"}, want: false},
		{name: "one minute overlap", a: [2]string{"10:00", "12:01"}, b: [2]string{"12:00", "14:00"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := window(t, monday, tt.a[0], tt.a[1])
			b := window(t, monday, tt.b[0], tt.b[1])
			assert.Equal(t, tt.want, reservation.Overlaps(a, b))
			assert.Equal(t, tt.want, reservation.Overlaps(b, a), "overlap must be symmetric")
		})
	}

	t.Run("different days never overlap", func(t *testing.T) {
		a := window(t, monday, "10:00", "12:00")
		b := window(t, monday.AddDate(0, 0, 1), "10:00", "12:00")
		assert.False(t, reservation.Overlaps(a, b))
	})
}

func TestHasConflict(t *testing.T) {
	resourceID := uuid.New()
	requested := window(t, monday, "10:00", "12:00")

	occupancy := func(res uuid.UUID, status reservation.Status, start, end string) reservation.Occupancy {
		return reservation.Occupancy{
			ReservationID: uuid.New(),
			ResourceID:    res,
			Window:        window(t, monday, start, end),
			Status:        status,
		}
	}

	tests := []struct {
		name     string
		existing []reservation.Occupancy
		want     bool
	}{
		{name: "empty", want: false},
		{name: "pending overlap", existing: []reservation.Occupancy{occupancy(resourceID, reservation.StatusPending, "11:00", "13:00")}, want: true},
		{name: "confirmed overlap", existing: []reservation.Occupancy{occupancy(resourceID, reservation.StatusConfirmed, "09:00", "10:30")}, want: true},
		{name: "cancelled is ignored", existing: []reservation.Occupancy{occupancy(resourceID, reservation.StatusCancelled, "10:00", "12:00")}, want: false},
		{name: "completed still occupies", existing: []reservation.Occupancy{occupancy(resourceID, reservation.StatusCompleted, "10:00", "12:00")}, want: true},
		{name: "other resource is ignored", existing: []reservation.Occupancy{occupancy(uuid.New(), reservation.StatusPending, "10:00", "12:00")}, want: false},
		{
			name: "touching neighbours",
			existing: []reservation.Occupancy{
				occupancy(resourceID, reservation.StatusPending, "08:00", "10:00"),
				occupancy(resourceID, reservation.StatusConfirmed, "12:00", "14:00"),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reservation.HasConflict(resourceID, requested, tt.existing))
		})
	}
}

func TestNewWindow(t *testing.T) {
	ten, _ := resource.NewTimeOfDay(10, 0)
	twelve, _ := resource.NewTimeOfDay(12, 0)

	_, err := reservation.NewWindow(monday, twelve, ten)
	assert.ErrorIs(t, err, reservation.ErrInvalidWindow)
	assert.ErrorIs(t, err, reservation.ErrInvalidInput)

	_, err = reservation.NewWindow(monday, ten, ten)
	assert.ErrorIs(t, err, reservation.ErrInvalidWindow)

	w, err := reservation.NewWindow(monday.Add(15*time.Hour), ten, resource.EndOfDay)
	require.NoError(t, err)
	assert.Equal(t, monday, w.Date())
	assert.Equal(t, "2025-06-02 10:00-24:00", w.String())
	assert.Equal(t, 14, w.BilledHours())
}
