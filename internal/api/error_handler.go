package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/core/domain"
)

// ErrorResponse is the canonical error envelope for all API errors: a status
// code, a machine-readable code, a human message, and a timestamp. Raw
// internal errors never cross this boundary.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newErrorResponse(status int, code, message string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the ErrorResponse envelope on every failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		_ = c.JSON(resp.Status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) ErrorResponse {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return newErrorResponse(he.Code, codeForStatus(he.Code), fmt.Sprintf("%v", he.Message))
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrDuplicateUser):
		return newErrorResponse(http.StatusConflict, "DUPLICATE_USERNAME", "duplicate username")
	case errors.Is(err, domain.ErrMissingCredentials):
		return newErrorResponse(http.StatusBadRequest, "MISSING_CREDENTIALS", err.Error())
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return newErrorResponse(http.StatusUnauthorized, "AUTHENTICATION_FAILED", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return newErrorResponse(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		return newErrorResponse(http.StatusForbidden, "FORBIDDEN", "access forbidden")
	case errors.Is(err, domain.ErrUserNotFound):
		return newErrorResponse(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, domain.ErrTooManyAttempts):
		return newErrorResponse(http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "too many attempts, retry later")
	case errors.Is(err, domain.ErrInternal):
		return newErrorResponse(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return newErrorResponse(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "ERROR"
	}
}
