package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testProduct(id, title, category string, price int64) models.Product {
	return models.Product{
		ID:       id,
		Title:    title,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Sizes:    []string{"S", "M"},
		Colors:   []string{"Red", "Blue"},
	}
}

func TestHome(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("BestSelling", mock.Anything).Return([]models.Product{testProduct("B1", "Tee", "Men", 10)}, nil).Once()
		api.On("Latest", mock.Anything).Return(nil, errors.New("timeout")).Once()
		handler := handlers.NewHomeHandler(service.NewHomeService(api))
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Home().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var page models.HomePage
		resp := decodeData(t, rr, &page)
		assert.True(t, resp.Success)
		assert.Len(t, page.BestSelling, 1)
		assert.Empty(t, page.Latest)
	})
}

func TestCollections(t *testing.T) {
	catalog := []models.Product{
		testProduct("1", "Linen Shirt", "Women", 40),
		testProduct("2", "Denim Jacket", "Men", 90),
		testProduct("3", "Silk Shirt", "Women", 25),
	}

	t.Run("Success - Filtered And Sorted", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("ListProducts", mock.Anything).Return(catalog, nil).Once()
		handler := handlers.NewCatalogHandler(api)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/collections?category=women&search=SHIRT&sort=asc", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Collections().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		var page models.CatalogPage
		decodeData(t, rr, &page)
		require.Len(t, page.Products, 2)
		assert.Equal(t, "3", page.Products[0].ID)
		assert.Equal(t, "1", page.Products[1].ID)
		assert.Equal(t, []string{"Women", "Men", "Kids"}, page.Categories)
		assert.Equal(t, models.SortAscending, page.Sort)
	})

	t.Run("Success - Empty Result", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("ListProducts", mock.Anything).Return(catalog, nil).Once()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/collections?category=kids,men&search=shirt", nil, nil)
		rr := httptest.NewRecorder()

		handlers.NewCatalogHandler(api).Collections().ServeHTTP(rr, req)

		var page models.CatalogPage
		decodeData(t, rr, &page)
		assert.True(t, page.Empty)
		assert.Equal(t, "No products found.", page.Message)
	})

	t.Run("Failure - Upstream Down", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("ListProducts", mock.Anything).Return(nil, errors.New("refused")).Once()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/collections", nil, nil)
		rr := httptest.NewRecorder()

		handlers.NewCatalogHandler(api).Collections().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		resp := decodeData(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeLoadFailed, resp.Error.Code)
	})
}

func TestProductHandler(t *testing.T) {
	p := testProduct("P1", "Tee", "Men", 10)

	t.Run("Success - Get Product", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "P1").Return(&p, nil).Once()
		handler := handlers.NewProductHandler(service.NewProductService(api), api)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/P1", nil, map[string]string{"id": "P1"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetProduct().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		var got models.Product
		decodeData(t, rr, &got)
		assert.Equal(t, "Tee", got.Title)
		assert.Equal(t, []string{"S", "M"}, got.Sizes)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "nope").Return(nil, appErrors.NotFoundError("Not found")).Once()
		handler := handlers.NewProductHandler(service.NewProductService(api), api)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/products/nope", nil, map[string]string{"id": "nope"})
		rr := httptest.NewRecorder()

		handler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Success - Add To Cart", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "P1").Return(&p, nil).Once()
		api.On("AddToCart", mock.Anything, testutils.TestToken, mock.AnythingOfType("*models.Product"), "M", "Red", 1).Return(nil).Once()
		handler := handlers.NewProductHandler(service.NewProductService(api), api)
		body := jsonBody(t, models.AddToCartRequest{Size: "M", Colors: []string{"Red"}})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/products/P1/cart", body, testutils.NewSession(models.RoleUser), map[string]string{"id": "P1"})
		rr := httptest.NewRecorder()

		// Act
		handler.AddToCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		api.AssertExpectations(t)
	})

	t.Run("Success - Add To Cart Sends Stored Text", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		stored := testProduct("P2", "Men's Tom & Jerry Tee", "Kids & Teens", 15)
		stored.Description = "<p>Soft & light</p>"
		api.On("GetProduct", mock.Anything, "P2").Return(&stored, nil).Once()
		api.On("AddToCart", mock.Anything, testutils.TestToken, mock.MatchedBy(func(p *models.Product) bool {
			return p.Title == "Men's Tom & Jerry Tee" && p.Description == "<p>Soft & light</p>"
		}), "M", "Red", 1).Return(nil).Once()
		handler := handlers.NewProductHandler(service.NewProductService(api), api)
		body := jsonBody(t, models.AddToCartRequest{Size: "M", Colors: []string{"Red"}})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/products/P2/cart", body, testutils.NewSession(models.RoleUser), map[string]string{"id": "P2"})
		rr := httptest.NewRecorder()

		// Act
		handler.AddToCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		api.AssertExpectations(t)
	})

	t.Run("Failure - Add To Cart Without Color", func(t *testing.T) {
		api := mocks.NewShopAPI()
		api.On("GetProduct", mock.Anything, "P1").Return(&p, nil).Once()
		handler := handlers.NewProductHandler(service.NewProductService(api), api)
		body := jsonBody(t, models.AddToCartRequest{Size: "M"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/products/P1/cart", body, testutils.NewSession(models.RoleUser), map[string]string{"id": "P1"})
		rr := httptest.NewRecorder()

		handler.AddToCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		api.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
