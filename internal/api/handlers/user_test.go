package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupUserHandler(t *testing.T) (*handlers.UserHandler, *mocks.ShopAPI, *session.FileStore) {
	t.Helper()

	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)

	manager := session.NewManager(store, &config.Session{CookieName: "storefront_session", TTL: time.Hour})
	api := mocks.NewShopAPI()

	return handlers.NewUserHandler(service.NewAuthService(api, nil), manager), api, store
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success - Session Started", func(t *testing.T) {
		// Arrange
		handler, api, store := setupUserHandler(t)
		creds := &models.LoginRequest{Email: "ada@example.com", Password: "secret"}
		api.On("Login", mock.Anything, creds).Return(&models.LoginResponse{Token: "opaque", Role: models.RoleAdmin}, nil).Once()
		api.On("UserDetails", mock.Anything, "opaque").Return(&models.User{Email: creds.Email}, nil).Once()
		sess := testutils.NewSession("")
		oldID := sess.ID
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/login", jsonBody(t, creds), sess, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Login().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		var view models.SessionView
		decodeData(t, rr, &view)
		assert.True(t, view.Authenticated)
		assert.True(t, view.Admin)
		require.NotNil(t, view.Profile)
		assert.Equal(t, creds.Email, view.Profile.Email)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sess.ID, cookies[0].Value)
		assert.NotEqual(t, oldID, sess.ID)

		_, found, err := store.Get(t.Context(), sess.ID)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Failure - Invalid Input", func(t *testing.T) {
		handler, api, _ := setupUserHandler(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/login", jsonBody(t, map[string]string{"email": "nope"}), nil)
		rr := httptest.NewRecorder()

		handler.Login().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rejected Credentials", func(t *testing.T) {
		// Arrange
		handler, api, _ := setupUserHandler(t)
		creds := &models.LoginRequest{Email: "ada@example.com", Password: "wrong"}
		api.On("Login", mock.Anything, creds).Return(nil, appErrors.UnauthorizedError("Authentication required")).Once()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/login", jsonBody(t, creds), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Login().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := decodeData(t, rr, nil)
		assert.Equal(t, "Login failed. Please check your credentials and try again.", resp.Error.Message)
		assert.Empty(t, rr.Result().Cookies())
	})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, api, _ := setupUserHandler(t)
		reg := &models.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "secret1"}
		api.On("Register", mock.Anything, reg).Return(nil).Once()
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/register", jsonBody(t, reg), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		api.AssertExpectations(t)
	})

	t.Run("Failure - Short Password", func(t *testing.T) {
		handler, api, _ := setupUserHandler(t)
		reg := &models.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "123"}
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/register", jsonBody(t, reg), nil)
		rr := httptest.NewRecorder()

		handler.Register().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeData(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("Success - Session Cleared And Cookie Expired", func(t *testing.T) {
		// Arrange
		handler, _, store := setupUserHandler(t)
		sess := testutils.NewSession(models.RoleUser)
		require.NoError(t, store.Save(t.Context(), sess, time.Hour))
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/logout", nil, sess, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Logout().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, sess.IsAuthenticated())
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Negative(t, cookies[0].MaxAge)
		_, found, err := store.Get(t.Context(), sess.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestMeHandler(t *testing.T) {
	t.Run("Success - Anonymous", func(t *testing.T) {
		handler, _, _ := setupUserHandler(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/me", nil, nil)
		rr := httptest.NewRecorder()

		handler.Me().ServeHTTP(rr, req)

		var view models.SessionView
		decodeData(t, rr, &view)
		assert.False(t, view.Authenticated)
		assert.Nil(t, view.Profile)
	})
}
