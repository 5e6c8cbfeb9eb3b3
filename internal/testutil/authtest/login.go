//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"turf-reservation/internal/handler/dto/request"
	"turf-reservation/internal/handler/dto/response"
	"turf-reservation/internal/testutil/dbtest"
	"turf-reservation/internal/testutil/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginUser returns the token pair issued for the credentials.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) response.TokenResponse {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.AuthResponse
	httptest.DecodeResponseBody(t, w, &resp)
	require.NotEmpty(t, resp.Tokens.AccessToken, "access token missing from login response")

	return resp.Tokens
}

// CreateAndLogin seeds a user with dbtest.DefaultPassword and returns its access token.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role)
	return LoginUser(t, router, email, dbtest.DefaultPassword).AccessToken
}
