package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankcore/cards-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors: a map of
// field (or the generic "error" key) to message.
type errorResponse struct {
	Errors map[string]string `json:"errors"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders per-field maps for request validation failures.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors: bind failures, 404 from the router, middleware
	// rejections. Validation failures carry a per-field map as the message.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if fields, ok := he.Message.(map[string]string); ok {
			return he.Code, errorResponse{Errors: fields}
		}
		return he.Code, errorResponse{Errors: map[string]string{"error": fmt.Sprintf("%v", he.Message)}}
	}

	// Known domain errors map to deterministic status codes; the wrapped
	// message carries the condition detail.
	switch {
	case errors.Is(err, domain.ErrInvalidCardNumber),
		errors.Is(err, domain.ErrCardNumberTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrImpossibleTransfer),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, errorResponse{Errors: map[string]string{"error": err.Error()}}
	case errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, errorResponse{Errors: map[string]string{"error": err.Error()}}
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusForbidden, errorResponse{Errors: map[string]string{"error": err.Error()}}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Errors: map[string]string{"error": "internal server error"}}
}
