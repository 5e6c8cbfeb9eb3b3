//go:build unit

package resource_test

import (
	"strings"
	"testing"
	"time"

	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/testutil/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "06:30", want: 390},
		{in: "24:00", want: 1440},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "6:30", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "10:1x", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "-0:30", wantErr: true},
		{in: " 9:00", wantErr: true},
		{in: "09:00 ", wantErr: true},
		{in: "09.00", wantErr: true},
		{in: "99:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := resource.ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, resource.ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Minutes())
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestTimeOfDayFromMinutes(t *testing.T) {
	_, err := resource.TimeOfDayFromMinutes(-1)
	assert.ErrorIs(t, err, resource.ErrInvalidTimeOfDay)
	_, err = resource.TimeOfDayFromMinutes(1441)
	assert.ErrorIs(t, err, resource.ErrInvalidTimeOfDay)

	tod, err := resource.TimeOfDayFromMinutes(1440)
	require.NoError(t, err)
	assert.Equal(t, resource.EndOfDay, tod)
}

func TestNewWeeklyTiming(t *testing.T) {
	open, _ := resource.NewTimeOfDay(6, 0)
	closeAt, _ := resource.NewTimeOfDay(22, 0)

	_, err := resource.NewWeeklyTiming(time.Monday, closeAt, open, nil, true)
	assert.ErrorIs(t, err, resource.ErrInvalidOpenHours)

	_, err = resource.NewWeeklyTiming(time.Weekday(7), open, closeAt, nil, true)
	assert.ErrorIs(t, err, resource.ErrInvalidWeekday)

	_, err = resource.NewWeeklyTiming(time.Monday, open, closeAt, builder.Cents(-1), true)
	assert.ErrorIs(t, err, resource.ErrNegativeRate)

	timing, err := resource.NewWeeklyTiming(time.Monday, open, closeAt, nil, true)
	require.NoError(t, err)
	assert.True(t, timing.Contains(open, closeAt))
	assert.False(t, timing.Contains(open-1, closeAt))
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *builder.ResourceBuilder)
		errIs  error
	}{
		{name: "valid"},
		{name: "blank name", mutate: func(b *builder.ResourceBuilder) { b.Name = "   " }, errIs: resource.ErrEmptyResourceName},
		{name: "long name", mutate: func(b *builder.ResourceBuilder) { b.Name = strings.Repeat("x", 256) }, errIs: resource.ErrResourceNameTooLong},
		{name: "negative capacity", mutate: func(b *builder.ResourceBuilder) { b.Capacity = -1 }, errIs: resource.ErrNegativeCapacity},
		{name: "negative rate", mutate: func(b *builder.ResourceBuilder) { b.PricePerHourCents = -1 }, errIs: resource.ErrNegativeRate},
		{
			name: "two timings for one weekday",
			mutate: func(b *builder.ResourceBuilder) {
				b.Timings = append(b.Timings, builder.TimingSpec{Weekday: time.Monday, Open: "08:00", Close: "10:00", IsAvailable: true})
			},
			errIs: resource.ErrDuplicateTiming,
		},
		{
			name: "add-on names collide ignoring case",
			mutate: func(b *builder.ResourceBuilder) {
				b.AddOns = append(b.AddOns, builder.AddOnSpec{Name: "FLOODLIGHTS", IsAvailable: true})
			},
			errIs: resource.ErrDuplicateAddOn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.NewResourceBuilder()
			if tt.mutate != nil {
				b.With(tt.mutate)
			}
			res, err := b.BuildDomain()
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.IsBookable())
		})
	}
}

func TestResource_IsBookable(t *testing.T) {
	assert.False(t, builder.NewResourceBuilder().AsInactive().MustBuildDomain().IsBookable())
	assert.False(t, builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.IsAvailable = false }).MustBuildDomain().IsBookable())
}

func TestResource_AddOnByName(t *testing.T) {
	court := builder.NewResourceBuilder().MustBuildDomain()

	addOn, ok := court.AddOnByName("  floodlights ")
	require.True(t, ok)
	assert.Equal(t, "Floodlights", addOn.Name())
	assert.Equal(t, int64(20000), addOn.CostCents())

	_, ok = court.AddOnByName("Sauna")
	assert.False(t, ok)
}
