package components

import (
	"crypto/rand"

	"turf-reservation/internal/domain/auth"
	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/pkg/clock"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/usecase"
	"turf-reservation/internal/usecase/commands"
	"turf-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewDefaultPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	func(cfg config.Config) reservation.SlotPolicy {
		return reservation.NewSlotPolicy(cfg.Booking.SlotLength, cfg.Booking.StrictSlotAlignment)
	},
	reservation.NewFactory,
	func() auth.RandomSource {
		return rand.Reader
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewResourceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
