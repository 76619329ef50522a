// Package errors provides structured error handling with wire error codes and
// HTTP status code mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code clients key their handling on.
type Code string

const (
	CodeInvalidPayload Code = "ERR_INVALID_PAYLOAD"
	CodeNotFound       Code = "ERR_NOT_FOUND"
	CodeUnauthorized   Code = "ERR_UNAUTHORIZED"
	CodeForbidden      Code = "ERR_FORBIDDEN"
	CodeConflict       Code = "ERR_CONFLICT"
	CodePolicyCutoff   Code = "ERR_POLICY_CUTOFF"
	CodeSlotBlocked    Code = "ERR_SLOT_BLOCKED"
	CodeRateLimit      Code = "ERR_RATE_LIMIT"
	CodeInternal       Code = "ERR_INTERNAL"
)

// Error represents a structured error with code, message, and context.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error code.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidPayload:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodePolicyCutoff:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSlotBlocked:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Context: make(map[string]any)}
}

// Validation creates an invalid-payload error (HTTP 400).
func Validation(message string) *Error {
	return newError(CodeInvalidPayload, message)
}

// NotFound creates a not-found error (HTTP 404).
func NotFound(message string) *Error {
	return newError(CodeNotFound, message)
}

// Unauthorized creates an unauthorized error (HTTP 401).
func Unauthorized(message string) *Error {
	return newError(CodeUnauthorized, message)
}

// Forbidden creates a forbidden error (HTTP 403).
func Forbidden(message string) *Error {
	return newError(CodeForbidden, message)
}

// Conflict creates a conflict error (HTTP 409).
func Conflict(message string) *Error {
	return newError(CodeConflict, message)
}

// PolicyCutoff creates a cutoff-policy violation error (HTTP 403).
func PolicyCutoff(message string) *Error {
	return newError(CodePolicyCutoff, message)
}

// SlotBlocked creates a blocked-slot error (HTTP 409).
func SlotBlocked(message string) *Error {
	return newError(CodeSlotBlocked, message)
}

// RateLimit creates a rate-limit error (HTTP 429).
func RateLimit(message string) *Error {
	return newError(CodeRateLimit, message)
}

// Internal creates an internal error (HTTP 500).
func Internal(message string, cause error) *Error {
	e := newError(CodeInternal, message)
	e.Cause = cause
	return e
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Response is the JSON error envelope sent to clients.
type Response struct {
	OK    bool `json:"ok"`
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ToResponse converts an Error to the wire envelope.
func (e *Error) ToResponse() Response {
	var r Response
	r.OK = false
	r.Error.Code = e.Code
	r.Error.Message = e.Message
	return r
}

// AsStructured converts any error into a structured *Error.
// If err is already an *Error, returns it unchanged; otherwise wraps it as internal.
func AsStructured(err error) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}

	return Internal("internal error", err)
}
