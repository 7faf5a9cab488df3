package errors_test

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *appErrors.AppError
		wantCode   string
		wantStatus int
	}{
		{"Validation", appErrors.ValidationError("bad"), appErrors.ErrCodeValidation, http.StatusBadRequest},
		{"Forbidden", appErrors.ForbiddenError("no"), appErrors.ErrCodeForbidden, http.StatusForbidden},
		{"NotFound", appErrors.NotFoundError("missing"), appErrors.ErrCodeNotFound, http.StatusNotFound},
		{"InsufficientStock", appErrors.InsufficientStockError("short"), appErrors.ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{"InvalidTransition", appErrors.InvalidTransitionError("nope"), appErrors.ErrCodeInvalidTransition, http.StatusConflict},
		{"Database", appErrors.DatabaseError("db"), appErrors.ErrCodeDatabaseError, http.StatusInternalServerError},
		{"TooManyRequests", appErrors.TooManyRequestsError("slow down"), appErrors.ErrCodeTooManyRequests, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
		})
	}
}

func TestIsAppError(t *testing.T) {
	t.Run("Wrapped AppError is found", func(t *testing.T) {
		// Arrange
		cause := stdErrors.New("connection reset")
		appErr := appErrors.DatabaseError("Failed to approve").WithError(cause).WithDetail("tx aborted")
		wrapped := fmt.Errorf("handler: %w", appErr)

		// Act
		found, ok := appErrors.IsAppError(wrapped)

		// Assert
		require.True(t, ok)
		assert.Equal(t, "tx aborted", found.Detail)
		assert.ErrorIs(t, wrapped, cause)
		assert.Equal(t, "Failed to approve", found.Error())
	})

	t.Run("Plain error is not an AppError", func(t *testing.T) {
		found, ok := appErrors.IsAppError(stdErrors.New("plain"))

		assert.False(t, ok)
		assert.Nil(t, found)
	})
}

func TestAddValidationError(t *testing.T) {
	err := appErrors.AddValidationError("reason", "must not be empty")

	assert.Equal(t, appErrors.ErrCodeValidation, err.Code)
	assert.Equal(t, "Invalid field 'reason': must not be empty", err.Message)
}
