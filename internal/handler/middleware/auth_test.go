//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTokenValidator struct {
	mock.Mock
}

func (m *mockTokenValidator) ValidateToken(token string) (uuid.UUID, user.Role, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Get(1).(user.Role), args.Error(2)
}

func newAuthRouter(validator *mockTokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := middleware.NewAuthMiddleware(validator)

	r := gin.New()
	r.GET("/me", mw.RequireAuth(), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", mw.RequireAuth(), mw.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/open", mw.OptionalAuth(), func(c *gin.Context) {
		if id, ok := middleware.GetUserID(c); ok {
			c.String(http.StatusOK, id.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid bearer token sets the identity", func(t *testing.T) {
		validator := new(mockTokenValidator)
		validator.On("ValidateToken", "good").Return(userID, user.RoleCustomer, nil).Once()

		w := get(newAuthRouter(validator), "/me", "good")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
		validator.AssertExpectations(t)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		w := get(newAuthRouter(new(mockTokenValidator)), "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer scheme is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		newAuthRouter(new(mockTokenValidator)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		validator := new(mockTokenValidator)
		validator.On("ValidateToken", "bad").Return(uuid.Nil, user.Role(""), errors.New("expired")).Once()

		w := get(newAuthRouter(validator), "/me", "bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role user.Role
		want int
	}{
		{name: "admin passes", role: user.RoleAdmin, want: http.StatusNoContent},
		{name: "customer is forbidden", role: user.RoleCustomer, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(mockTokenValidator)
			validator.On("ValidateToken", "token").Return(uuid.New(), tt.role, nil).Once()

			w := get(newAuthRouter(validator), "/admin", "token")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous without token", func(t *testing.T) {
		w := get(newAuthRouter(new(mockTokenValidator)), "/open", "")
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		validator := new(mockTokenValidator)
		validator.On("ValidateToken", "bad").Return(uuid.Nil, user.Role(""), errors.New("expired")).Once()

		w := get(newAuthRouter(validator), "/open", "bad")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})
}
