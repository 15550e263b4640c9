package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
)

type sessionContextKey struct{}

var SessionContextKey = sessionContextKey{}

type SessionMiddleware struct {
	manager *session.Manager
}

func NewSessionMiddleware(manager *session.Manager) *SessionMiddleware {
	return &SessionMiddleware{manager: manager}
}

// Load attaches the visitor's session to the request. After the handler
// returns, an authenticated session that was changed is written back.
func (m *SessionMiddleware) Load(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		sess, err := m.manager.Load(r)
		if err != nil {
			logger.Error("Failed to load session, continuing anonymously", slog.String("error", err.Error()))
		}

		before := sess.UpdatedAt

		requestLogger := logger.With(slog.Bool("authenticated", sess.IsAuthenticated()))
		if sess.IsAuthenticated() {
			requestLogger = requestLogger.With(slog.String("role", string(sess.Role)))
		}

		ctx := WithSession(r.Context(), sess)
		ctx = WithLogger(ctx, requestLogger)

		next.ServeHTTP(w, r.WithContext(ctx))

		if !sess.IsAuthenticated() || sess.UpdatedAt.Equal(before) {
			return
		}

		if err := m.manager.Save(context.WithoutCancel(r.Context()), sess); err != nil {
			requestLogger.Error("Failed to save session", slog.String("error", err.Error()))
		}
	}
}

func WithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, sess)
}

// SessionFromContext returns the request's session, or a throwaway anonymous
// one when no session middleware ran.
func SessionFromContext(ctx context.Context) *models.Session {
	if sess, ok := ctx.Value(SessionContextKey).(*models.Session); ok && sess != nil {
		return sess
	}

	return models.NewSession("")
}
