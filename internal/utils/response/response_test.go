package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	// Arrange
	rr := httptest.NewRecorder()

	// Act
	response.Success(rr, http.StatusOK, map[string]string{"hello": "world"})

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"hello":"world"}}`, rr.Body.String())
}

func TestError(t *testing.T) {
	t.Run("Success - AppError Mapped", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		response.Error(rr, appErrors.CartEmptyError("Your cart is empty").WithDetail("no lines"))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"CART_EMPTY","message":"Your cart is empty","details":["no lines"]}}`, rr.Body.String())
	})

	t.Run("Success - Unknown Error Hidden", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()

		// Act
		response.Error(rr, errors.New("secret internals"))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret internals")
	})
}

func TestValidationError(t *testing.T) {
	// Arrange
	type form struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(form{})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	rr := httptest.NewRecorder()

	// Act
	response.ValidationError(rr, errs)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrCodeValidation, body.Error.Code)
	assert.Equal(t, []string{"Field Email is required"}, body.Error.Details)
}

func TestRedirect(t *testing.T) {
	// Arrange
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)

	// Act
	response.Redirect(rr, req, "/login", http.StatusSeeOther)

	// Assert
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Contains(t, rr.Body.String(), `"redirect_to":"/login"`)
}
