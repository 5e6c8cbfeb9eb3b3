package api

import (
	"net/http"

	"turf-reservation/internal/handler/httperr"
	"turf-reservation/internal/pkg/errs"
	"turf-reservation/internal/usecase/commands"
	"turf-reservation/internal/usecase/queries"
)

var (
	errUnauthenticated = errs.New("missing authenticated user in context")
	errInvalidID       = errs.New("invalid id")
)

var authRules = []httperr.Rule{
	{Target: commands.ErrInvalidInput, Status: http.StatusBadRequest, Message: "Invalid request data"},
	{Target: commands.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Invalid email or password"},
	{Target: commands.ErrInvalidToken, Status: http.StatusUnauthorized, Message: "Invalid or expired refresh token"},
	{Target: commands.ErrUserInactive, Status: http.StatusForbidden, Message: "Account is inactive"},
	{Target: queries.ErrUserInactive, Status: http.StatusForbidden, Message: "Account is inactive"},
	{Target: commands.ErrEmailTaken, Status: http.StatusConflict, Message: "Email already registered"},
	{Target: commands.ErrRefreshTokenNotFound, Status: http.StatusNotFound, Message: "Refresh token not found"},
	{Target: commands.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
	{Target: queries.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
}

var resourceRules = []httperr.Rule{
	{Target: queries.ErrResourceNotFound, Status: http.StatusNotFound, Message: "Resource not found"},
}

var reservationRules = []httperr.Rule{
	{Target: commands.ErrInvalidInput, Status: http.StatusBadRequest, Message: "Invalid reservation request"},
	{Target: queries.ErrInvalidCursor, Status: http.StatusBadRequest, Message: "Invalid cursor"},
	{Target: commands.ErrResourceNotFound, Status: http.StatusNotFound, Message: "Resource not found"},
	{Target: commands.ErrReservationNotFound, Status: http.StatusNotFound, Message: "Reservation not found"},
	{Target: queries.ErrReservationNotFound, Status: http.StatusNotFound, Message: "Reservation not found"},
	{Target: commands.ErrReservationConflict, Status: http.StatusConflict, Message: "Requested window overlaps an existing reservation"},
	{Target: commands.ErrIllegalState, Status: http.StatusConflict, Message: "Reservation cannot make this transition"},
	{Target: commands.ErrIdempotencyKeyReused, Status: http.StatusConflict, Message: "Idempotency key already used with a different request"},
	{Target: commands.ErrIdempotencyKeyMissing, Status: http.StatusConflict, Message: "Idempotency key request is still in progress"},
	{Target: commands.ErrResourceNotAvailable, Status: http.StatusUnprocessableEntity, Message: "Resource is not available for the requested window"},
}
