package middleware

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).IsAuthenticated() {
			LoggerFromContext(r.Context()).Warn("Authentication required, redirecting to login")
			response.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireAdmin sends anonymous visitors to the login page and signed in
// non-admins home.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())

		if !sess.IsAuthenticated() {
			LoggerFromContext(r.Context()).Warn("Authentication required, redirecting to login")
			response.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		if !sess.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin access denied")
			response.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}
