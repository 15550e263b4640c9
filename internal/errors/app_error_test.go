package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("Success - Wraps Cause", func(t *testing.T) {
		// Arrange
		cause := errors.New("connection refused")

		// Act
		err := appErrors.RemoteCallFailedError("Failed to load cart").WithError(cause).WithDetail("GET /cart")

		// Assert
		assert.Equal(t, "Failed to load cart", err.Error())
		assert.Equal(t, appErrors.ErrCodeRemoteCallFailed, err.Code)
		assert.Equal(t, http.StatusBadGateway, err.StatusCode)
		assert.Equal(t, "GET /cart", err.Detail)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Success - IsAppError Through Wrapping", func(t *testing.T) {
		// Arrange
		wrapped := fmt.Errorf("checkout: %w", appErrors.CartEmptyError("Your cart is empty"))

		// Act
		appErr, ok := appErrors.IsAppError(wrapped)

		// Assert
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeCartEmpty, appErr.Code)
		assert.True(t, appErrors.HasCode(wrapped, appErrors.ErrCodeCartEmpty))
		assert.False(t, appErrors.HasCode(wrapped, appErrors.ErrCodeCheckoutFailed))
	})

	t.Run("Failure - Plain Error", func(t *testing.T) {
		// Act
		appErr, ok := appErrors.IsAppError(errors.New("boom"))

		// Assert
		assert.False(t, ok)
		assert.Nil(t, appErr)
	})

	t.Run("Success - Field Validation Message", func(t *testing.T) {
		// Act
		err := appErrors.AddValidationError("size", "a size must be selected")

		// Assert
		assert.Equal(t, "Invalid field 'size': a size must be selected", err.Message)
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})
}
