package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "storefront_session"

func setupSessions(t *testing.T) (*session.Manager, *session.FileStore) {
	t.Helper()

	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return session.NewManager(store, &config.Session{CookieName: cookieName, TTL: time.Hour}), store
}

// loggedIn persists an authenticated session and returns its cookie.
func loggedIn(t *testing.T, manager *session.Manager, role models.Role) (*models.Session, *http.Cookie) {
	t.Helper()

	sess := models.NewSession("")
	sess.Login("tok", role, time.Now().Add(time.Hour))

	rec := httptest.NewRecorder()
	require.NoError(t, manager.Renew(t.Context(), rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	return sess, cookies[0]
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("Success - Anonymous Session Not Persisted", func(t *testing.T) {
		// Arrange
		manager, store := setupSessions(t)
		var seen *models.Session
		handler := middleware.NewSessionMiddleware(manager).Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.SessionFromContext(r.Context())
			seen.Touch()
		}))

		// Act
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		require.NotNil(t, seen)
		assert.False(t, seen.IsAuthenticated())
		_, found, err := store.Get(t.Context(), seen.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Success - Changed Session Saved", func(t *testing.T) {
		// Arrange
		manager, store := setupSessions(t)
		sess, cookie := loggedIn(t, manager, models.RoleUser)
		handler := middleware.NewSessionMiddleware(manager).Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := middleware.SessionFromContext(r.Context())
			current.PendingDelete = "P1"
			current.Touch()
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)

		// Act
		handler.ServeHTTP(httptest.NewRecorder(), req)

		// Assert
		stored, found, err := store.Get(t.Context(), sess.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "P1", stored.PendingDelete)
	})

	t.Run("Success - Unchanged Session Not Rewritten", func(t *testing.T) {
		// Arrange
		manager, store := setupSessions(t)
		sess, cookie := loggedIn(t, manager, models.RoleUser)
		handler := middleware.NewSessionMiddleware(manager).Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			middleware.SessionFromContext(r.Context()).PendingDelete = "untracked"
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)

		// Act
		handler.ServeHTTP(httptest.NewRecorder(), req)

		// Assert
		stored, found, err := store.Get(t.Context(), sess.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Empty(t, stored.PendingDelete)
	})
}

func TestSessionFromContext(t *testing.T) {
	sess := middleware.SessionFromContext(t.Context())

	require.NotNil(t, sess)
	assert.False(t, sess.IsAuthenticated())
}
