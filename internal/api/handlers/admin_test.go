package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func productMultipart(t *testing.T, fields map[string]string, files map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	for name, content := range files {
		part, err := mw.CreateFormFile("media", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestAdminCreateHandler(t *testing.T) {
	t.Run("Success - Multipart With Media", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		var (
			uploaded     []byte
			uploadedName string
		)
		api.On("CreateProduct", mock.Anything, testutils.TestToken, mock.MatchedBy(func(w *shopapi.ProductWrite) bool {
			return w.Title == "Tee" && w.Stock == 3 && len(w.Media) == 1 &&
				assert.ObjectsAreEqual([]string{"S", "M"}, w.Sizes)
		})).Run(func(args mock.Arguments) {
			write := args.Get(2).(*shopapi.ProductWrite)
			uploadedName = write.Media[0].Filename
			uploaded, _ = io.ReadAll(write.Media[0].Content)
		}).Return(nil).Once()
		api.On("ListProducts", mock.Anything).Return([]models.Product{{ID: "P1", Title: "Tee"}}, nil).Once()

		body, contentType := productMultipart(t, map[string]string{
			"title": "Tee", "category": "Men", "price": "12.50", "stock": "3", "sizes": `["S","M"]`, "colors": "Red",
		}, map[string]string{"tee.png": "png-bytes"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages", body, testutils.NewSession(models.RoleAdmin), nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		// Act
		handlers.NewAdminHandler(api).CreateProduct().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusCreated, rr.Code)
		var page models.AdminPage
		decodeData(t, rr, &page)
		assert.Len(t, page.Products, 1)
		assert.Equal(t, "tee.png", uploadedName)
		assert.Equal(t, "png-bytes", string(uploaded))
		api.AssertExpectations(t)
	})

	t.Run("Failure - Bad Stock", func(t *testing.T) {
		api := mocks.NewShopAPI()
		body, contentType := productMultipart(t, map[string]string{"title": "Tee", "category": "Men", "price": "1", "stock": "many"}, nil)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages", body, testutils.NewSession(models.RoleAdmin), nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		handlers.NewAdminHandler(api).CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeData(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("Failure - Not An Admin", func(t *testing.T) {
		api := mocks.NewShopAPI()
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages", jsonBody(t, models.ProductForm{Title: "Tee", Category: "Men", Price: "1"}), testutils.NewSession(models.RoleUser), nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		handlers.NewAdminHandler(api).CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAdminUploadLimit(t *testing.T) {
	t.Run("Failure - Multipart Over Limit", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		body, contentType := productMultipart(t, map[string]string{
			"title": "Tee", "category": "Men", "price": "1",
		}, map[string]string{"big.png": strings.Repeat("x", 4096)})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages", body, testutils.NewSession(models.RoleAdmin), nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		// Act
		handlers.NewAdminHandler(api).WithUploadLimit(1024).CreateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		resp := decodeData(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeTooLarge, resp.Error.Code)
		api.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Streamed Body Over Limit", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		form := models.ProductForm{Title: "Tee", Category: "Men", Price: "1", Description: strings.Repeat("x", 4096)}
		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/admin/packages/P1", jsonBody(t, form), testutils.NewSession(models.RoleAdmin), map[string]string{"id": "P1"})
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		rr := httptest.NewRecorder()

		// Act
		handlers.NewAdminHandler(api).WithUploadLimit(1024).UpdateProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		api.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminDeleteHandlers(t *testing.T) {
	t.Run("Success - Request Then Confirm", func(t *testing.T) {
		// Arrange
		api := mocks.NewShopAPI()
		handler := handlers.NewAdminHandler(api)
		sess := testutils.NewSession(models.RoleAdmin)
		api.On("DeleteProduct", mock.Anything, testutils.TestToken, "P1").Return(nil).Once()
		api.On("ListProducts", mock.Anything).Return([]models.Product{}, nil).Once()

		// Act
		rr := httptest.NewRecorder()
		handler.RequestDelete().ServeHTTP(rr, testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages/P1/delete", nil, sess, map[string]string{"id": "P1"}))

		var pending models.AdminPage
		decodeData(t, rr, &pending)

		confirm := httptest.NewRecorder()
		handler.ConfirmDelete().ServeHTTP(confirm, testutils.CreateTestRequestWithContext(http.MethodPost, "/admin/packages/delete/confirm", nil, sess, nil))

		// Assert
		assert.Equal(t, "P1", pending.PendingDelete)
		require.Equal(t, http.StatusOK, confirm.Code)
		var after models.AdminPage
		decodeData(t, confirm, &after)
		assert.Empty(t, after.PendingDelete)
		api.AssertExpectations(t)
	})

	t.Run("Success - Cancel", func(t *testing.T) {
		api := mocks.NewShopAPI()
		sess := testutils.NewSession(models.RoleAdmin)
		sess.PendingDelete = "P1"
		rr := httptest.NewRecorder()

		handlers.NewAdminHandler(api).CancelDelete().ServeHTTP(rr, testutils.CreateTestRequestWithContext(http.MethodDelete, "/admin/packages/delete", nil, sess, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, sess.PendingDelete)
		api.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything, mock.Anything)
	})
}
