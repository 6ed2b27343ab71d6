package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"meetbook/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name:    "bad request from error",
			err:     failure.BadRequest(errors.New("validation failed")),
			code:    http.StatusBadRequest,
			message: "validation failed",
		},
		{
			name:    "bad request from string",
			err:     failure.BadRequestFromString("no valid data to process"),
			code:    http.StatusBadRequest,
			message: "no valid data to process",
		},
		{
			name:    "unauthorized",
			err:     failure.Unauthorized("missing api key"),
			code:    http.StatusUnauthorized,
			message: "missing api key",
		},
		{
			name:    "not found",
			err:     failure.NotFound("slot not found"),
			code:    http.StatusNotFound,
			message: "slot not found",
		},
		{
			name:    "conflict",
			err:     failure.Conflict("slot with same company already booked"),
			code:    http.StatusConflict,
			message: "slot with same company already booked",
		},
		{
			name:    "explicit code",
			err:     failure.New(http.StatusRequestEntityTooLarge, "file must not exceed 10 MB"),
			code:    http.StatusRequestEntityTooLarge,
			message: "file must not exceed 10 MB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure

			assert.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Error())
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    failure.Conflict("taken"),
			expected: http.StatusConflict,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("booking: %w", failure.NotFound("attendee not found")),
			expected: http.StatusNotFound,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", failure.NotFound("slot not found"))

	assert.True(t, failure.Is(err, http.StatusNotFound))
	assert.False(t, failure.Is(err, http.StatusConflict))
	assert.False(t, failure.Is(errors.New("plain"), http.StatusNotFound))
}
