package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{PolicyCutoff("too late"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{SlotBlocked("blocked"), http.StatusConflict},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), "code %s", tt.err.Code)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("db unavailable", cause)

	assert.Contains(t, err.Error(), "ERR_INTERNAL")
	assert.Contains(t, err.Error(), "db unavailable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Internal("wrapped", cause)

	require.ErrorIs(t, err, cause)
}

func TestAsStructuredPassesThrough(t *testing.T) {
	original := Conflict("slot taken")
	got := AsStructured(fmt.Errorf("handler: %w", original))

	assert.Same(t, original, got)
}

func TestAsStructuredWrapsUnknown(t *testing.T) {
	got := AsStructured(errors.New("something odd"))

	assert.Equal(t, CodeInternal, got.Code)
	assert.NotNil(t, got.Cause)
}

func TestAsStructuredNil(t *testing.T) {
	assert.Nil(t, AsStructured(nil))
}

func TestToResponseEnvelope(t *testing.T) {
	resp := SlotBlocked("slot is not available").ToResponse()

	assert.False(t, resp.OK)
	assert.Equal(t, CodeSlotBlocked, resp.Error.Code)
	assert.Equal(t, "slot is not available", resp.Error.Message)
}

func TestWithFieldChaining(t *testing.T) {
	err := NotFound("booking not found").
		WithField("code", "BKG-20260101-ABC123").
		WithField("actor", "admin")

	assert.Equal(t, "BKG-20260101-ABC123", err.Context["code"])
	assert.Equal(t, "admin", err.Context["actor"])
}
