//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/testutil/builder"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	court := builder.NewResourceBuilder().MustBuildDomain()
	f.store.SeedResource(court)
	id := f.book(t, court.ID(), monday, "10:00", "12:00")

	q := queries.NewReservationQueries(f.store.ReadStore())

	view, err := q.GetByID(ctx, f.userID, id)
	require.NoError(t, err)
	assert.Equal(t, "Court A", view.ResourceName)
	assert.Equal(t, "test@example.com", view.UserEmail)
	assert.Equal(t, "10:00", view.StartTime)
	assert.Equal(t, "12:00", view.EndTime)
	assert.Equal(t, int64(200000), view.PriceCents)
	assert.Equal(t, "pending", view.Status)
	assert.Equal(t, []string{}, view.AddOns)

	_, err = q.GetByID(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, queries.ErrReservationNotFound)

	system, err := q.GetByIDSystem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, system.ID)

	_, err = q.GetByIDSystem(ctx, uuid.New())
	assert.ErrorIs(t, err, queries.ErrReservationNotFound)
}

func TestReservationQueries_ListByUser(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	court := builder.NewResourceBuilder().OpenEveryDay("06:00", "22:00").MustBuildDomain()
	f.store.SeedResource(court)

	var booked []uuid.UUID
	for i := 0; i < 5; i++ {
		f.clock.Set(f.clock.Now().Add(time.Minute))
		booked = append(booked, f.book(t, court.ID(), monday.AddDate(0, 0, i), "10:00", "12:00"))
	}

	q := queries.NewReservationQueries(f.store.ReadStore())

	var (
		seen   []uuid.UUID
		cursor *queries.Cursor
		pages  int
	)
	for {
		items, next, err := q.ListByUser(ctx, f.userID, cursor, 2)
		require.NoError(t, err)
		pages++
		for _, item := range items {
			seen = append(seen, item.ID)
		}
		if next == nil {
			break
		}
		cursor = next
	}

	assert.Equal(t, 3, pages)
	want := []uuid.UUID{booked[4], booked[3], booked[2], booked[1], booked[0]}
	assert.Equal(t, want, seen)

	t.Run("other users see nothing", func(t *testing.T) {
		items, next, err := q.ListByUser(ctx, uuid.New(), nil, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Nil(t, next)
	})

	t.Run("malformed cursor", func(t *testing.T) {
		_, _, err := q.ListByUser(ctx, f.userID, &queries.Cursor{After: "not-a-cursor"}, 10)
		assert.True(t, errs.Is(err, queries.ErrInvalidCursor), "got %v", err)
	})
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 2, 10, 0, 0, 123456000, time.UTC)
	id := uuid.New()

	createdAt, decodedID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
	require.NoError(t, err)
	assert.True(t, at.Equal(createdAt))
	assert.Equal(t, id, decodedID)

	tests := []struct {
		name   string
		cursor string
	}{
		{name: "empty", cursor: ""},
		{name: "not base64", cursor: "%%%"},
		{name: "unknown version", cursor: "djI6MTIzLWFiYw=="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
}
