package bootstrap

import (
	"context"
	"log/slog"

	"turf-reservation/internal/infra/ratelimit"
	"turf-reservation/internal/pkg/config"

	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRateLimiter,
	),
)

// NewRateLimiter returns a nil Limiter when rate limiting is disabled.
func NewRateLimiter(lc fx.Lifecycle, cfg config.Config) (ratelimit.Limiter, error) {
	if !cfg.RateLimit.Enabled {
		slog.Info("rate limiting disabled")
		return nil, nil
	}

	client, err := ratelimit.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	slog.Info("rate limiting enabled", "redis_addr", cfg.Redis.Addr, "capacity", cfg.RateLimit.Capacity)
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit), nil
}
