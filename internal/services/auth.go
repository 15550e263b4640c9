package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/ratelimit"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
)

const (
	msgLoginFailed        = "Login failed. Please check your credentials and try again."
	msgRegistrationFailed = "Registration failed. Please try again."
)

type LoginLimiter interface {
	Allow(ctx context.Context, email string) (ratelimit.Decision, error)
	Reset(ctx context.Context, email string) error
}

// AuthService drives login, registration and logout against the shop API and
// records the outcome in the session it is handed.
type AuthService struct {
	api     AuthAPI
	limiter LoginLimiter
}

// NewAuthService builds the service. limiter may be nil when no Redis is
// configured, in which case attempts are not throttled.
func NewAuthService(api AuthAPI, limiter LoginLimiter) *AuthService {
	return &AuthService{api: api, limiter: limiter}
}

func (s *AuthService) Login(ctx context.Context, sess *models.Session, req *models.LoginRequest) error {
	logger := middleware.LoggerFromContext(ctx)

	if s.limiter != nil {
		decision, err := s.limiter.Allow(ctx, req.Email)
		if err != nil {
			logger.Warn("Login rate limiter unavailable", slog.String("error", err.Error()))
		} else if !decision.Allowed {
			logger.Warn("Login attempts exceeded", slog.String("email", req.Email))
			return errors.TooManyRequestsError("Too many login attempts. Please try again later.").
				WithDetail(fmt.Sprintf("retry after %d seconds", int(math.Ceil(decision.RetryAfter.Seconds()))))
		}
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		logger.Warn("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		return withUpstreamMessage(err, msgLoginFailed)
	}

	if resp.Token == "" {
		return errors.RemoteCallFailedError(msgLoginFailed).WithDetail("no token in login response")
	}

	expiresAt, claimedRole := session.InspectToken(resp.Token)

	role := resp.Role
	if role == "" {
		role = claimedRole
	}

	if role == "" {
		role = models.RoleUser
	}

	sess.Login(resp.Token, role, expiresAt)

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, req.Email); err != nil {
			logger.Warn("Failed to reset login attempts", slog.String("error", err.Error()))
		}
	}

	logger.Info("User logged in", slog.String("email", req.Email), slog.String("role", string(role)))

	return nil
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	if err := s.api.Register(ctx, req); err != nil {
		middleware.LoggerFromContext(ctx).Warn("User registration failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		return withUpstreamMessage(err, msgRegistrationFailed)
	}

	middleware.LoggerFromContext(ctx).Info("User registered", slog.String("email", req.Email))

	return nil
}

func (s *AuthService) Logout(ctx context.Context, sess *models.Session) {
	sess.Logout()

	middleware.LoggerFromContext(ctx).Info("User logged out")
}

// CurrentUser returns the profile of the signed in account. It is fetched at
// most once per login; a failed fetch is logged and leaves the profile unset.
func (s *AuthService) CurrentUser(ctx context.Context, sess *models.Session) *models.User {
	if !sess.IsAuthenticated() {
		return nil
	}

	if sess.ProfileFetched {
		return sess.Profile
	}

	sess.ProfileFetched = true
	sess.Touch()

	user, err := s.api.UserDetails(ctx, sess.Token)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Error fetching user details", slog.String("error", err.Error()))
		return nil
	}

	sess.Profile = user

	return user
}

// withUpstreamMessage shows the shop API's own message when it sent one and
// fallback otherwise, keeping the error code.
func withUpstreamMessage(err error, fallback string) error {
	message := fallback

	var statusErr *shopapi.StatusError
	if stdErrors.As(err, &statusErr) && statusErr.Message != "" {
		message = statusErr.Message
	}

	appErr, ok := errors.IsAppError(err)
	if !ok {
		return errors.RemoteCallFailedError(message).WithError(err)
	}

	return errors.NewAppError(appErr.Code, message, appErr.StatusCode).WithError(err)
}
