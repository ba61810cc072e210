package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		target error
		status int
		code   string
	}{
		{"not found", NotFound("employee"), ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", Unauthorized("missing token"), ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", Forbidden("no company"), ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"bad request", BadRequest("bad date"), ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{"conflict", Conflict("duplicate"), ErrConflict, http.StatusConflict, "CONFLICT"},
		{"validation", Validation("amount must be positive", nil), ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"token expired", TokenExpired(), ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"token invalid", TokenInvalid(), ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.target))
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	assert.Equal(t, "employee not found", NotFound("employee").Message)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := fmt.Errorf("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "an unexpected error occurred", err.Message)
	assert.NotContains(t, err.Message, "connection refused")
	assert.True(t, Is(err, ErrInternal))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidation_DefaultMessageAndDetails(t *testing.T) {
	err := Validation("", map[string]string{"amount": "must be greater than 0"})
	assert.Equal(t, "validation failed", err.Message)
	assert.Equal(t, "must be greater than 0", err.Details["amount"])
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("recording attendance: %w", Conflict("slot taken"))

	var appErr *AppError
	require.True(t, As(wrapped, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.True(t, Is(wrapped, ErrConflict))
}

func TestWithDetails(t *testing.T) {
	err := BadRequest("salary run failed").WithDetails(map[string]string{"month": "2024-03"})

	assert.Nil(t, New("RATE_LIMITED", "rate limited", http.StatusTooManyRequests).Unwrap())
	assert.Equal(t, ErrBadRequest, err.Unwrap())
	assert.Equal(t, "salary run failed: bad request", err.Error())
	assert.Equal(t, "2024-03", err.Details["month"])
	assert.Equal(t, "rate limited", New("RATE_LIMITED", "rate limited", http.StatusTooManyRequests).Error())
}
