package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// errorEnvelope is the canonical error body: code mirrors the HTTP status
// as a string, errors carries ordered field messages or null.
type errorEnvelope struct {
	Code    string   `json:"code"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope on every failure path.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg, fieldErrs := resolveError(err, log, c)
		_ = c.JSON(status, errorEnvelope{
			Code:    strconv.Itoa(status),
			Message: msg,
			Errors:  fieldErrs,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, []string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "validation failed", ve.Messages
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		return http.StatusBadRequest, "conflict", ce.Messages
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "invalid credentials", nil
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required", nil
	case errors.Is(err, domain.ErrRenewalFailed):
		return http.StatusForbidden, "renew token failed", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "not allowed to perform this action", nil
	case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "invalid token", nil
	case errors.Is(err, domain.ErrInvalidGrant):
		return http.StatusBadRequest, "invalid share grant", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", nil
	case errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, "resource not found", nil
	case errors.Is(err, domain.ErrShareNotFound):
		return http.StatusNotFound, "share not found", nil
	case errors.Is(err, domain.ErrStorageUnavailable):
		// transient; safe for the caller to retry
		log.Error().Err(err).Str("path", c.Path()).Msg("storage unavailable")
		return http.StatusInternalServerError, "service temporarily unavailable", nil
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
