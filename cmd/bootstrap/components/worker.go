package components

import (
	"context"

	"turf-reservation/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewOutboxRelay,
	),
	fx.Invoke(startOutboxRelay),
)

func startOutboxRelay(lc fx.Lifecycle, relay *worker.OutboxRelay) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// The hook context ends when startup finishes, so the relay gets its own.
			relay.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			relay.Stop()
			return nil
		},
	})
}
