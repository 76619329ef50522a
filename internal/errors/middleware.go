package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPErrorsTotal tracks HTTP errors by wire code.
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total HTTP errors by error code",
	},
	[]string{"code"},
)

// Middleware returns an Echo middleware that converts errors returned by
// handlers into the JSON error envelope.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// Echo HTTPErrors (404 routing, body limit, rate limiter) are
			// mapped onto the same envelope so clients see one shape.
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				structured := wrapHTTPError(httpErr)
				HTTPErrorsTotal.WithLabelValues(string(structured.Code)).Inc()
				logError(c, structured)
				return writeResponse(c, structured)
			}

			structured := AsStructured(err)
			HTTPErrorsTotal.WithLabelValues(string(structured.Code)).Inc()
			logError(c, structured)
			return writeResponse(c, structured)
		}
	}
}

func writeResponse(c echo.Context, err *Error) error {
	if c.Response().Committed {
		return nil
	}
	if werr := c.JSON(err.HTTPStatus(), err.ToResponse()); werr != nil {
		return fmt.Errorf("failed to write error response: %w", werr)
	}
	return nil
}

func logError(c echo.Context, err *Error) {
	attrs := []any{
		"code", err.Code,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if userID := c.Get("userID"); userID != nil {
		attrs = append(attrs, "user_id", userID)
	}

	switch err.Code {
	case CodeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.Error("Internal error", attrs...)
	case CodeConflict, CodeSlotBlocked, CodePolicyCutoff:
		slog.Warn("Request rejected", attrs...)
	default:
		slog.Info("Request failed", attrs...)
	}
}

func wrapHTTPError(httpErr *echo.HTTPError) *Error {
	message := "internal error"
	if httpErr.Message != nil {
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	var code Code
	switch httpErr.Code {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		code = CodeInvalidPayload
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusForbidden:
		code = CodeForbidden
	case http.StatusNotFound:
		code = CodeNotFound
	case http.StatusConflict:
		code = CodeConflict
	case http.StatusTooManyRequests:
		code = CodeRateLimit
	default:
		code = CodeInternal
	}

	err := newError(code, message)
	if httpErr.Internal != nil {
		err.Cause = httpErr.Internal
	}
	return err
}
