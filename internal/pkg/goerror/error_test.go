package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("db down")), want: http.StatusInternalServerError},
		{name: "operation failed", err: NewOperationFailed(errors.New("smtp"), "Failed"), want: http.StatusInternalServerError},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "not found", err: NewBusiness("User not found", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("Email already exists", CodeConflict), want: http.StatusConflict},
		{name: "unauthorized", err: NewBusiness("Invalid or expired OTP", CodeUnauthorized), want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if assert.True(t, errors.As(tt.err, &gerr)) {
				assert.Equal(t, tt.want, gerr.StatusCode())
			}
		})
	}
}

func TestNewServer_HidesCause(t *testing.T) {
	// Arrange
	cause := errors.New("pq: connection refused")

	// Act
	err := NewServer(cause)

	// Assert
	var gerr *Error
	assert.True(t, errors.As(err, &gerr))
	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, TypeServer, gerr.Type())
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "email", "email is required")

	var gerr *Error
	assert.True(t, errors.As(err, &gerr))
	assert.Equal(t, CodeInvalidInput, gerr.Code())
	assert.Equal(t, map[string]string{"email": "email is required"}, gerr.Fields())

	odd := NewInvalidInput(nil, "email")
	assert.Equal(t, CodeInvalidFormat, CodeOf(odd))
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewBusiness("nope", CodeUnauthorized))

	assert.Equal(t, CodeUnauthorized, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
