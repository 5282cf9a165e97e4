package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/syncflow/syncflow-api/internal/api/handler"
	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the error envelope {"statusCode", "message", "success": false}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{StatusCode: code, Message: msg, Success: false})
	}
}

var kindStatus = []struct {
	kind error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (unknown routes, 405, body limits).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.code, domain.Message(err, http.StatusText(ks.code))
		}
	}

	// Unexpected error: log the real cause. Only a message set through
	// domain.Unexpected reaches the client.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	msg := http.StatusText(http.StatusInternalServerError)
	if errors.Is(err, domain.ErrUnexpected) {
		msg = domain.Message(err, msg)
	}
	return http.StatusInternalServerError, msg
}
