// Package apperr defines the stable, machine-readable error taxonomy shared
// by every domain service. Handlers return these errors unwrapped; the echo
// error handler maps them to HTTP statuses and a JSON envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind identifies a failure class. The string values are part of the API
// contract and must not change.
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindAvailabilityViolation Kind = "availability_violation"
	KindSchedulingConflict    Kind = "scheduling_conflict"
	KindInsufficientQuantity  Kind = "insufficient_quantity"
	KindInvalidStatus         Kind = "invalid_status"
	KindInvalidTransition     Kind = "invalid_transition"
	KindValidation            Kind = "validation"
	KindUnauthorized          Kind = "unauthorized"
	KindInternal              Kind = "internal"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never rendered to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error carrying an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(what string) *Error {
	return New(KindNotFound, "%s not found", what)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, err, "internal error")
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

var statusByKind = map[Kind]int{
	KindNotFound:              http.StatusNotFound,
	KindAvailabilityViolation: http.StatusUnprocessableEntity,
	KindSchedulingConflict:    http.StatusConflict,
	KindInsufficientQuantity:  http.StatusConflict,
	KindInvalidStatus:         http.StatusBadRequest,
	KindInvalidTransition:     http.StatusConflict,
	KindValidation:            http.StatusBadRequest,
	KindUnauthorized:          http.StatusUnauthorized,
	KindInternal:              http.StatusInternalServerError,
}

// HTTPStatus returns the response status for a kind.
func HTTPStatus(kind Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// ErrorHandler returns an echo HTTPErrorHandler that renders classified
// errors as {"error":{"kind","message"}}. Unclassified errors and echo
// HTTPErrors from binding/routing keep their status but are logged and
// rendered without internal detail.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := envelope{Error: body{Kind: KindInternal, Message: "internal error"}}

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr.Kind)
			resp.Error = body{Kind: appErr.Kind, Message: appErr.Message}
			if appErr.Kind == KindInternal {
				resp.Error.Message = "internal error"
				logger.Error().Err(err).Str("path", c.Path()).Msg("internal error")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			kind := KindValidation
			switch status {
			case http.StatusNotFound:
				kind = KindNotFound
			case http.StatusUnauthorized:
				kind = KindUnauthorized
			case http.StatusForbidden:
				kind = KindUnauthorized
			case http.StatusInternalServerError:
				kind = KindInternal
			}
			resp.Error = body{Kind: kind, Message: fmt.Sprintf("%v", httpErr.Message)}
		default:
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}
