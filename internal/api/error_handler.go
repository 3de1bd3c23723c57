package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/ingest"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrAdminExists):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAgentExists):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNoActiveAgents):
		return http.StatusBadRequest, "no active agents available, please create agents first"
	case errors.Is(err, domain.ErrEmptyFile):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrMissingColumns):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUploadInProgress):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
