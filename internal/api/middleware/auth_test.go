package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	user := models.NewSession("u")
	user.Login("tok", models.RoleUser, time.Now().Add(time.Hour))

	admin := models.NewSession("a")
	admin.Login("tok", models.RoleAdmin, time.Time{})

	expired := models.NewSession("e")
	expired.Login("tok", models.RoleAdmin, time.Now().Add(-time.Minute))

	tests := []struct {
		name         string
		guard        func(http.Handler) http.HandlerFunc
		sess         *models.Session
		wantStatus   int
		wantLocation string
	}{
		{"Success - User Passes Auth", middleware.RequireAuth, user, http.StatusOK, ""},
		{"Failure - Anonymous Sent To Login", middleware.RequireAuth, models.NewSession("x"), http.StatusSeeOther, "/login"},
		{"Failure - Expired Token Sent To Login", middleware.RequireAuth, expired, http.StatusSeeOther, "/login"},
		{"Success - Admin Passes Admin", middleware.RequireAdmin, admin, http.StatusOK, ""},
		{"Failure - User Sent Home", middleware.RequireAdmin, user, http.StatusSeeOther, "/"},
		{"Failure - Anonymous Admin Route Sent To Login", middleware.RequireAdmin, models.NewSession("x"), http.StatusSeeOther, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			req = req.WithContext(middleware.WithSession(req.Context(), tt.sess))
			rec := httptest.NewRecorder()

			// Act
			tt.guard(ok).ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}
