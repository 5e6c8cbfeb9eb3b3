package bootstrap

import (
	"fmt"
	"time"

	"turf-reservation/internal/domain/auth"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewTokenPolicy,
		NewJWTService,
	),
)

func NewTokenPolicy(cfg config.Config) (auth.TokenPolicy, error) {
	accessTokenDuration, err := time.ParseDuration(cfg.JWT.AccessTokenDuration)
	if err != nil {
		return auth.TokenPolicy{}, fmt.Errorf("invalid JWT_ACCESS_TOKEN_DURATION: %w", err)
	}

	refreshTokenDuration, err := time.ParseDuration(cfg.JWT.RefreshTokenDuration)
	if err != nil {
		return auth.TokenPolicy{}, fmt.Errorf("invalid JWT_REFRESH_TOKEN_DURATION: %w", err)
	}

	return auth.NewTokenPolicy(accessTokenDuration, refreshTokenDuration, cfg.JWT.RefreshTokenBytes)
}

func NewJWTService(cfg config.Config, policy auth.TokenPolicy) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, policy.AccessTTL)
}
