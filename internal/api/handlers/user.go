package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
	validator   *validator.Validate
}

func NewUserHandler(authService *service.AuthService, sessions *session.Manager) *UserHandler {
	return &UserHandler{authService: authService, sessions: sessions, validator: validator.New()}
}

// Register godoc
//
//	@Summary		Create an account
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	response.APIResponse
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		502		{object}	response.ErrorResponse	"Registration failed"
//	@Router			/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid registration input")
			return
		}

		if err := h.authService.Register(r.Context(), &req); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, map[string]string{"message": "Registration successful. Please log in.", "redirect_to": middleware.LoginPath})
	}
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Forwards the credentials to the shop API and starts a new session.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest	true	"Email and password"
//	@Success		200			{object}	models.SessionView
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Invalid credentials"
//	@Failure		429			{object}	response.ErrorResponse	"Too many attempts"
//	@Router			/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		sess := middleware.SessionFromContext(r.Context())

		if err := h.authService.Login(r.Context(), sess, &req); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.sessions.Renew(r.Context(), w, sess); err != nil {
			logger.Error("Failed to persist session", slog.String("error", err.Error()))
			response.Error(w, errors.InternalError("Failed to start session").WithError(err))
			return
		}

		h.authService.CurrentUser(r.Context(), sess)

		response.Success(w, http.StatusOK, sess.View())
	}
}

// Logout godoc
//
//	@Summary		Sign out
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.SessionView
//	@Router			/logout [post]
func (h *UserHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		h.authService.Logout(r.Context(), sess)

		if err := h.sessions.Destroy(r.Context(), w, sess); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to delete session", slog.String("error", err.Error()))
		}

		response.Success(w, http.StatusOK, sess.View())
	}
}

// Me godoc
//
//	@Summary		Current visitor
//	@Description	Authentication state and, once signed in, the account profile.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.SessionView
//	@Router			/me [get]
func (h *UserHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())

		h.authService.CurrentUser(r.Context(), sess)

		response.Success(w, http.StatusOK, sess.View())
	}
}
