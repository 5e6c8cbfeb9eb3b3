//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/pkg/config"
	"turf-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.AccessTokenDuration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, duration)
	token, _, err := service.GenerateAccessToken(userID, "test@example.com", "Test User", role, time.Now())
	require.NoError(t, err)
	return token
}

// CreateExpiredToken signs a token whose validity ended a minute ago.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Minute)
	token, _, err := service.GenerateAccessToken(userID, "test@example.com", "Test User", role, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)
	return token
}
