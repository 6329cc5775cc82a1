package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "input error type", errType: ErrTypeInput, expected: "INPUT"},
		{name: "length mismatch error type", errType: ErrTypeLengthMismatch, expected: "LENGTH_MISMATCH"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage error type", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "render error type", errType: ErrTypeRender, expected: "RENDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    &AppError{Type: ErrTypeInput, Message: "Input must be a dataframe."},
			wantMessage: "[INPUT] Input must be a dataframe.",
		},
		{
			name:        "error with cause",
			appError:    &AppError{Type: ErrTypeParsing, Message: "bad price", Cause: fmt.Errorf("not a number")},
			wantMessage: "[PARSING] bad price: not a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_IsMatchesByType(t *testing.T) {
	err := NewInputTypeError(map[string]int{"Chicago, IL": 200})
	assert.True(t, errors.Is(err, ErrInputType))
	assert.False(t, errors.Is(err, ErrLengthMismatch))

	wrapped := fmt.Errorf("plot: %w", NewLengthMismatchError(3, 4))
	assert.True(t, errors.Is(wrapped, ErrLengthMismatch))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, 3, appErr.Context["series"])
	assert.Equal(t, 4, appErr.Context["colors"])
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write chart", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeConfig, Message: "bad"}
	err.WithContext("field", "regions").WithContext("count", 0)

	assert.Equal(t, "regions", err.Context["field"])
	assert.Equal(t, 0, err.Context["count"])
}

func TestNewInputTypeError_RecordsType(t *testing.T) {
	err := NewInputTypeError(42)
	assert.Equal(t, "int", err.Context["got"])
	assert.Equal(t, "[INPUT] Input must be a dataframe.", err.Error())
}
