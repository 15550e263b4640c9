package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckoutResolve(t *testing.T) {
	ctx := context.Background()
	sess := authedSession(models.RoleUser)

	t.Run("Success - Session Paid", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("CheckoutStatus", mock.Anything, testToken, "cs_1").Return("succeeded", nil).Once()
		resolver := service.NewCheckoutResolver(api, 5*time.Second)

		// Act
		result := resolver.Resolve(ctx, sess, service.ResultQuery{SessionID: "cs_1"})

		// Assert
		assert.Equal(t, models.CheckoutSucceeded, result.Outcome)
		assert.True(t, result.Success)
		assert.Equal(t, "Payment Successful! Your order has been placed.", result.Message)
		assert.Equal(t, "/", result.RedirectTo)
		assert.Equal(t, 5, result.DismissSeconds)
		api.AssertExpectations(t)
	})

	t.Run("Failure - Session Not Paid", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("CheckoutStatus", mock.Anything, testToken, "cs_2").Return("open", nil).Once()

		result := service.NewCheckoutResolver(api, time.Second).Resolve(ctx, sess, service.ResultQuery{SessionID: "cs_2"})

		assert.Equal(t, models.CheckoutFailed, result.Outcome)
		assert.Equal(t, "Payment Failed. Please try again.", result.Message)
	})

	t.Run("Failure - Status Lookup Error", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("CheckoutStatus", mock.Anything, testToken, "cs_3").Return("", errors.New("502")).Once()

		result := service.NewCheckoutResolver(api, time.Second).Resolve(ctx, sess, service.ResultQuery{SessionID: "cs_3"})

		assert.False(t, result.Success)
		assert.Equal(t, "An error occurred while processing your payment.", result.Message)
	})

	t.Run("Success - Bare Status Codes", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		resolver := service.NewCheckoutResolver(api, 1500*time.Millisecond)

		// Act
		ok := resolver.Resolve(ctx, nil, service.ResultQuery{Status: "success"})
		cancelled := resolver.Resolve(ctx, nil, service.ResultQuery{Status: "cancel"})
		unknown := resolver.Resolve(ctx, nil, service.ResultQuery{Status: "???"})

		// Assert
		assert.Equal(t, models.CheckoutSucceeded, ok.Outcome)
		assert.Equal(t, models.CheckoutCancelled, cancelled.Outcome)
		assert.Equal(t, "Payment Failed or Cancelled. Please try again.", cancelled.Message)
		assert.Equal(t, "An error occurred. Please try again.", unknown.Message)
		assert.Equal(t, 2, ok.DismissSeconds)
		api.AssertNotCalled(t, "CheckoutStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}
