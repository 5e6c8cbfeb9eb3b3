//go:build e2e

package auth_test

import (
	"net/http"
	"sync"
	"testing"

	"turf-reservation/internal/domain/user"
	"turf-reservation/internal/e2e"
	"turf-reservation/internal/handler/dto/request"
	"turf-reservation/internal/handler/dto/response"
	"turf-reservation/internal/testutil/authtest"
	"turf-reservation/internal/testutil/dbtest"
	"turf-reservation/internal/testutil/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	revokeURL   = "/api/auth/revoke"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "test@example.com", string(user.RoleCustomer))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleCustomer))

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	s.Run("new account can log in immediately", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "new@example.com", Name: "New Player", Password: "longenough"}, "")

		var resp response.AuthResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.NotEqual(uuid.Nil, resp.UserID)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, resp.Tokens.AccessToken)
		var me map[string]any
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &me)
		s.Equal("new@example.com", me["email"])
		s.Equal(string(user.RoleCustomer), me["role"])
	})

	s.Run("duplicate email is 409", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL,
			request.RegisterRequest{Email: "test@example.com", Name: "Again", Password: "password123"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "Email already registered")
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "test@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "test@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "inactive user", email: "inactive@example.com", password: dbtest.DefaultPassword, expectedStatus: http.StatusForbidden},
		{name: "malformed email", email: "not-an-email", password: dbtest.DefaultPassword, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			s.Equal(tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func (s *authSuite) TestRefreshRotation() {
	s.Run("refresh token is single use", func() {
		tokens := authtest.LoginUser(s.T(), s.Router, "test@example.com", dbtest.DefaultPassword)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
		var rotated response.TokenResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &rotated)
		s.NotEqual(tokens.RefreshToken, rotated.RefreshToken)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
		s.Equal(http.StatusUnauthorized, w.Code, w.Body.String())
	})

	s.Run("concurrent refreshes of one token admit exactly one", func() {
		tokens := authtest.LoginUser(s.T(), s.Router, "test@example.com", dbtest.DefaultPassword)

		const attempts = 8
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
					request.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		rotated, rejected := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusOK:
				rotated++
			case http.StatusUnauthorized:
				rejected++
			}
		}
		s.Equal(1, rotated)
		s.Equal(attempts-1, rejected)
	})

	s.Run("revoked token cannot refresh", func() {
		tokens := authtest.LoginUser(s.T(), s.Router, "test@example.com", dbtest.DefaultPassword)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, revokeURL,
			request.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
		s.Equal(http.StatusNoContent, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL,
			request.RefreshRequest{RefreshToken: tokens.RefreshToken}, "")
		s.Equal(http.StatusUnauthorized, w.Code, w.Body.String())
	})
}

func (s *authSuite) TestMe() {
	s.Run("expired access token is rejected", func() {
		var userID uuid.UUID
		require.NoError(s.T(), s.DB.QueryRow(s.T().Context(), "SELECT id FROM users WHERE email = 'test@example.com'").Scan(&userID))

		token := s.jwtHelper.CreateExpiredToken(s.T(), userID, user.RoleCustomer)
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, token)
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("missing token is rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}
