package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

const TestToken = "test-token"

// NewSession returns a session signed in with role, or an anonymous one when
// role is empty.
func NewSession(role models.Role) *models.Session {
	sess := models.NewSession("00000000-0000-0000-0000-000000000001")
	if role != "" {
		sess.Login(TestToken, role, time.Now().Add(time.Hour))
	}

	return sess
}

func CreateTestRequestWithContext(method, target string, body io.Reader, sess *models.Session, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := middleware.WithSession(req.Context(), sess)
	ctx = middleware.WithLogger(ctx, logger)

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	return CreateTestRequestWithContext(method, target, body, NewSession(""), pathParams)
}
