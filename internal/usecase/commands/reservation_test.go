//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/testutil/memstore"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/testutil/builder"
	"turf-reservation/internal/usecase/commands"
	"turf-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// 2025-06-02 is a Monday; Court A opens Mondays 06:00-22:00.
var bookingDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type ReservationCommandsTestSuite struct {
	suite.Suite
	store    *memstore.Store
	clock    *clock.MockClock
	court    *resource.Resource
	customer *user.User
	other    *user.User
	commands commands.ReservationCommands
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.store = memstore.New()
	s.clock = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cfg := config.NewTestConfig()

	s.court = builder.NewResourceBuilder().MustBuildDomain()
	s.store.SeedResource(s.court)

	var err error
	s.customer, err = builder.NewUserBuilder().BuildDomain()
	s.Require().NoError(err)
	s.other, err = builder.NewUserBuilder().With(func(b *builder.UserBuilder) {
		b.ID = uuid.New()
		b.Email = "other@example.com"
	}).BuildDomain()
	s.Require().NoError(err)
	s.store.SeedUser(s.customer)
	s.store.SeedUser(s.other)

	factory := reservation.NewFactory(
		s.clock,
		reservation.NewDefaultPriceCalculator(),
		reservation.NewSlotPolicy(cfg.Booking.SlotLength, cfg.Booking.StrictSlotAlignment),
	)
	s.commands = commands.NewReservationCommands(s.store, factory, s.clock, cfg)
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) input(start, end string, addOns ...string) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		ResourceID: s.court.ID(),
		Date:       bookingDate,
		StartTime:  start,
		EndTime:    end,
		AddOns:     addOns,
	}
}

func (s *ReservationCommandsTestSuite) book(in commands.CreateReservationInput) uuid.UUID {
	result, err := s.commands.CreateReservation(context.Background(), in, s.customer.ID(), uuid.New())
	s.Require().NoError(err)
	return result.ReservationID
}

func (s *ReservationCommandsTestSuite) TestCreateReservation() {
	s.Run("success: prices the window and enqueues an event", func() {
		s.SetupTest()
		result, err := s.commands.CreateReservation(context.Background(), s.input("10:00", "12:00", "Floodlights"), s.customer.ID(), uuid.New())
		s.Require().NoError(err)
		s.False(result.IsReplayed)

		created, ok := s.store.Reservation(result.ReservationID)
		s.Require().True(ok)
		s.Equal(int64(220000), created.Price().Cents())
		s.Equal(2, created.DurationHours())
		s.Equal(reservation.StatusPending, created.Status())
		s.Equal(reservation.PaymentPending, created.PaymentStatus())
		s.Equal([]string{"Floodlights"}, created.AddOns())

		jobs := s.store.Jobs()
		s.Require().Len(jobs, 1)
		s.Equal(shared.TopicReservationCreated, jobs[0].Topic)
		s.Contains(string(jobs[0].Payload), result.ReservationID.String())
	})

	s.Run("success: partial hours are billed as whole hours", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "11:01"))
		created, _ := s.store.Reservation(id)
		s.Equal(2, created.DurationHours())
		s.Equal(int64(200000), created.Price().Cents())
	})

	s.Run("success: touching windows do not conflict", func() {
		s.SetupTest()
		s.book(s.input("10:00", "12:00"))
		s.book(s.input("12:00", "14:00"))
		s.Equal(2, s.store.CountLiveReservations(s.court.ID()))
	})

	tests := []struct {
		name    string
		mutate  func(in *commands.CreateReservationInput)
		wantErr error
	}{
		{
			name:    "error: end before start",
			mutate:  func(in *commands.CreateReservationInput) { in.StartTime, in.EndTime = "12:00", "10:00" },
			wantErr: commands.ErrInvalidInput,
		},
		{
			name:    "error: malformed time",
			mutate:  func(in *commands.CreateReservationInput) { in.StartTime = "25:00" },
			wantErr: commands.ErrInvalidInput,
		},
		{
			name:    "error: window in the past",
			mutate:  func(in *commands.CreateReservationInput) { in.Date = time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC) },
			wantErr: commands.ErrInvalidInput,
		},
		{
			name:    "error: closed on Sunday",
			mutate:  func(in *commands.CreateReservationInput) { in.Date = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC) },
			wantErr: commands.ErrResourceNotAvailable,
		},
		{
			name:    "error: outside opening hours",
			mutate:  func(in *commands.CreateReservationInput) { in.StartTime, in.EndTime = "21:00", "23:00" },
			wantErr: commands.ErrResourceNotAvailable,
		},
		{
			name:    "error: unknown add-on",
			mutate:  func(in *commands.CreateReservationInput) { in.AddOns = []string{"Sauna"} },
			wantErr: commands.ErrInvalidInput,
		},
		{
			name:    "error: unknown resource",
			mutate:  func(in *commands.CreateReservationInput) { in.ResourceID = uuid.New() },
			wantErr: commands.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			in := s.input("10:00", "12:00")
			tt.mutate(&in)

			_, err := s.commands.CreateReservation(context.Background(), in, s.customer.ID(), uuid.New())
			s.Require().Error(err)
			s.True(errs.Is(err, tt.wantErr), "got %v", err)
			s.Empty(s.store.Jobs())
		})
	}

	s.Run("error: overlapping window conflicts", func() {
		s.SetupTest()
		s.book(s.input("10:00", "12:00"))

		_, err := s.commands.CreateReservation(context.Background(), s.input("11:00", "13:00"), s.other.ID(), uuid.New())
		s.True(errs.Is(err, commands.ErrReservationConflict), "got %v", err)
	})
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_ConcurrentSameWindow() {
	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.commands.CreateReservation(context.Background(), s.input("18:00", "20:00"), s.customer.ID(), uuid.New())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errs.Is(err, commands.ErrReservationConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(attempts-1, conflicts)
	s.Equal(1, s.store.CountLiveReservations(s.court.ID()))
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_Idempotency() {
	ctx := context.Background()

	s.Run("replay returns the original reservation", func() {
		s.SetupTest()
		key := uuid.New()
		in := s.input("10:00", "12:00", "Floodlights")

		first, err := s.commands.CreateReservation(ctx, in, s.customer.ID(), key)
		s.Require().NoError(err)

		in.AddOns = []string{" floodlights "}
		second, err := s.commands.CreateReservation(ctx, in, s.customer.ID(), key)
		s.Require().NoError(err)

		s.True(second.IsReplayed)
		s.Equal(first.ReservationID, second.ReservationID)
		s.Equal(1, s.store.CountLiveReservations(s.court.ID()))
		s.Len(s.store.Jobs(), 1)
	})

	s.Run("same key with a different request is rejected", func() {
		s.SetupTest()
		key := uuid.New()
		_, err := s.commands.CreateReservation(ctx, s.input("10:00", "12:00"), s.customer.ID(), key)
		s.Require().NoError(err)

		_, err = s.commands.CreateReservation(ctx, s.input("14:00", "16:00"), s.customer.ID(), key)
		s.True(errs.Is(err, commands.ErrIdempotencyKeyReused), "got %v", err)
	})

	s.Run("keys are scoped per user", func() {
		s.SetupTest()
		key := uuid.New()
		_, err := s.commands.CreateReservation(ctx, s.input("10:00", "12:00"), s.customer.ID(), key)
		s.Require().NoError(err)

		result, err := s.commands.CreateReservation(ctx, s.input("14:00", "16:00"), s.other.ID(), key)
		s.Require().NoError(err)
		s.False(result.IsReplayed)
	})

	s.Run("a failed booking leaves the key unused", func() {
		s.SetupTest()
		s.book(s.input("10:00", "12:00"))
		key := uuid.New()

		_, err := s.commands.CreateReservation(ctx, s.input("11:00", "13:00"), s.customer.ID(), key)
		s.Require().Error(err)

		result, err := s.commands.CreateReservation(ctx, s.input("14:00", "16:00"), s.customer.ID(), key)
		s.Require().NoError(err)
		s.False(result.IsReplayed)
	})

	s.Run("an expired key is claimed again", func() {
		s.SetupTest()
		key := uuid.New()
		first, err := s.commands.CreateReservation(ctx, s.input("10:00", "12:00"), s.customer.ID(), key)
		s.Require().NoError(err)

		s.clock.Set(s.clock.Now().Add(25 * time.Hour))
		second, err := s.commands.CreateReservation(ctx, s.input("14:00", "16:00"), s.customer.ID(), key)
		s.Require().NoError(err)
		s.False(second.IsReplayed)
		s.NotEqual(first.ReservationID, second.ReservationID)
	})
}

func (s *ReservationCommandsTestSuite) TestCancelReservation() {
	ctx := context.Background()

	s.Run("owner cancels and the slot is free again", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))

		s.Require().NoError(s.commands.CancelReservation(ctx, id, s.customer.ID()))

		cancelled, _ := s.store.Reservation(id)
		s.Equal(reservation.StatusCancelled, cancelled.Status())
		s.Equal(int64(200000), cancelled.Price().Cents())
		s.Equal(shared.TopicReservationCancelled, s.store.Jobs()[1].Topic)

		s.book(s.input("10:00", "12:00"))
	})

	s.Run("another user sees not found", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))

		err := s.commands.CancelReservation(ctx, id, s.other.ID())
		s.True(errs.Is(err, commands.ErrReservationNotFound), "got %v", err)
	})

	s.Run("cancelling twice is illegal", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))
		s.Require().NoError(s.commands.CancelReservation(ctx, id, s.customer.ID()))

		err := s.commands.CancelReservation(ctx, id, s.customer.ID())
		s.True(errs.Is(err, commands.ErrIllegalState), "got %v", err)
	})

	s.Run("unknown reservation", func() {
		s.SetupTest()
		err := s.commands.CancelReservation(ctx, uuid.New(), s.customer.ID())
		s.True(errs.Is(err, commands.ErrReservationNotFound), "got %v", err)
	})
}

func (s *ReservationCommandsTestSuite) TestLifecycle() {
	ctx := context.Background()

	s.Run("pending to confirmed to completed", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))

		s.Require().NoError(s.commands.ConfirmReservation(ctx, id))
		s.Require().NoError(s.commands.CompleteReservation(ctx, id))

		done, _ := s.store.Reservation(id)
		s.Equal(reservation.StatusCompleted, done.Status())

		err := s.commands.CancelReservation(ctx, id, s.customer.ID())
		s.True(errs.Is(err, commands.ErrIllegalState), "got %v", err)
	})

	s.Run("complete requires confirmation", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))

		err := s.commands.CompleteReservation(ctx, id)
		s.True(errs.Is(err, commands.ErrIllegalState), "got %v", err)
	})

	s.Run("record payment", func() {
		s.SetupTest()
		id := s.book(s.input("10:00", "12:00"))

		s.Require().NoError(s.commands.RecordPayment(ctx, id, "success"))
		paid, _ := s.store.Reservation(id)
		s.Equal(reservation.PaymentSuccess, paid.PaymentStatus())

		err := s.commands.RecordPayment(ctx, id, "bogus")
		s.True(errs.Is(err, commands.ErrInvalidInput), "got %v", err)
	})
}
