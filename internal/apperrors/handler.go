package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"cheesemarket/internal/validation"
)

// errorResponse is the canonical error envelope for non-validation failures.
type errorResponse struct {
	Error string `json:"error"`
}

// violationResponse is the envelope for constraint violations (422).
type violationResponse struct {
	Error      string                `json:"error"`
	Violations validation.Violations `json:"violations"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps the domain
// error taxonomy onto status codes, renders constraint violations as a
// machine-readable list, and logs unexpected errors without leaking details
// to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var violations validation.Violations
		if errors.As(err, &violations) {
			_ = c.JSON(http.StatusUnprocessableEntity, violationResponse{
				Error:      "validation failed",
				Violations: violations,
			})
			return
		}

		code, msg := resolve(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolve(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrListingNotFound):
		return http.StatusNotFound, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
