package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusBadRequest)

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "validation failed", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	assert.Same(t, originalErr, wrapped.Err)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, originalErr)
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "resource not found"},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"invalid state", InvalidState("only pending bookings can be cancelled"), CodeInvalidState, http.StatusBadRequest},
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Booking", "42"), CodeNotFound, http.StatusNotFound},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"booking conflict", BookingConflict("Vehicle is already booked for selected dates"), CodeConflict, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("admins only"), CodeForbidden, http.StatusForbidden},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("redis"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Vehicle", "abc")

	assert.Equal(t, "Vehicle not found", err.Message)
	assert.Equal(t, map[string]any{"resource": "Vehicle", "id": "abc"}, err.Details)
}

func TestAsAppError(t *testing.T) {
	t.Run("passes app errors through wrapping", func(t *testing.T) {
		conflict := Conflict("taken")
		wrapped := fmt.Errorf("create: %w", conflict)

		assert.Same(t, conflict, AsAppError(wrapped))
		assert.True(t, IsAppError(wrapped))
		assert.True(t, HasCode(wrapped, CodeConflict))
	})

	t.Run("converts plain errors to internal", func(t *testing.T) {
		plain := errors.New("socket closed")
		appErr := AsAppError(plain)

		assert.Equal(t, CodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, plain)
		assert.False(t, IsAppError(plain))
		assert.False(t, HasCode(plain, CodeInternal))
	})
}

func TestToJSON(t *testing.T) {
	err := Validation("Booking validation failed", map[string]any{"field": "phone"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(err.ToJSON(), &body))

	assert.Equal(t, "Booking validation failed", body["message"])
	assert.Equal(t, "Bad Request", body["error"])
	assert.Equal(t, CodeValidation, body["code"])
	assert.Equal(t, map[string]any{"field": "phone"}, body["details"])
}
