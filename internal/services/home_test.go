package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func manyProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = product(fmt.Sprintf("P%d", i), "Item", "Men", int64(i+1))
	}

	return products
}

func TestHomePage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Strips Truncated", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("BestSelling", mock.Anything).Return(manyProducts(10), nil).Once()
		api.On("Latest", mock.Anything).Return(manyProducts(10), nil).Once()

		// Act
		page := service.NewHomeService(api).Page(ctx)

		// Assert
		assert.Len(t, page.BestSelling, 4)
		assert.Len(t, page.Latest, 8)
		api.AssertExpectations(t)
	})

	t.Run("Success - Failed Strip Rendered Empty", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("BestSelling", mock.Anything).Return(nil, errors.New("timeout")).Once()
		api.On("Latest", mock.Anything).Return(manyProducts(2), nil).Once()

		// Act
		page := service.NewHomeService(api).Page(ctx)

		// Assert
		assert.NotNil(t, page.BestSelling)
		assert.Empty(t, page.BestSelling)
		assert.Len(t, page.Latest, 2)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		p := product("P1", "Tee", "Men", 10)
		p.Sizes = []string{"S", "M"}
		api.On("GetProduct", mock.Anything, "P1").Return(&p, nil).Once()

		// Act
		got, err := service.NewProductService(api).GetProduct(ctx, "P1")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"S", "M"}, got.Sizes)
	})

	t.Run("Failure - Not Found Passes Through", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "nope").Return(nil, appErrors.NotFoundError("Not found")).Once()

		// Act
		got, err := service.NewProductService(api).GetProduct(ctx, "nope")

		// Assert
		assert.Nil(t, got)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Failure - Other Errors Become Load Failed", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "P1").Return(nil, errors.New("eof")).Once()

		// Act
		_, err := service.NewProductService(api).GetProduct(ctx, "P1")

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeLoadFailed))
	})

	t.Run("Failure - Missing ID", func(t *testing.T) {
		api := mocks.NewShopAPI()

		_, err := service.NewProductService(api).GetProduct(ctx, "")

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}
