package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	api       service.CartAPI
	opts      service.CartOptions
	validator *validator.Validate
}

func NewCartHandler(api service.CartAPI, opts service.CartOptions) *CartHandler {
	return &CartHandler{api: api, opts: opts, validator: validator.New()}
}

func (h *CartHandler) viewModel(r *http.Request) *service.CartViewModel {
	return service.NewCartViewModel(h.api, middleware.SessionFromContext(r.Context()), h.opts)
}

// GetCart godoc
//
//	@Summary		View the cart
//	@Description	Fetches the remote cart, replacing the local mirror, and returns its lines and total.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartView
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		502	{object}	response.ErrorResponse	"Cart could not be loaded"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm := h.viewModel(r)
		defer vm.Close()

		cart, err := vm.Load(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart.View())
	}
}

// UpdateLine godoc
//
//	@Summary		Change a line's quantity
//	@Description	Applies locally and pushes upstream. Quantities below 1 or not numeric leave the cart unchanged.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.UpdateLineRequest	true	"Line key and new quantity"
//	@Success		200		{object}	models.CartView
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Router			/cart/lines [put]
func (h *CartHandler) UpdateLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpdateLineRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid cart update input")
			return
		}

		cart, err := h.viewModel(r).SetQuantity(r.Context(), req.LineKey, req.Quantity)
		if err != nil && !errors.HasCode(err, errors.ErrCodeLineNotFound) {
			response.Error(w, err)
			return
		}

		if err != nil {
			logger.Warn("Quantity change ignored", slog.String("error", err.Error()))
		}

		response.Success(w, http.StatusOK, cart.View())
	}
}

// RemoveLine godoc
//
//	@Summary		Remove a line
//	@Description	Removes locally and pushes upstream. An unknown line leaves the cart unchanged.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.RemoveLineRequest	true	"Line key"
//	@Success		200		{object}	models.CartView
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Router			/cart/lines [delete]
func (h *CartHandler) RemoveLine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RemoveLineRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid cart removal input")
			return
		}

		cart, err := h.viewModel(r).RemoveLine(r.Context(), req.LineKey)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart.View())
	}
}

// Checkout godoc
//
//	@Summary		Start checkout
//	@Description	Creates a payment session for the cart and returns the payment page URL. The cart is cleared on success.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.CheckoutRedirect
//	@Failure		400	{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		502	{object}	response.ErrorResponse	"Checkout failed"
//	@Router			/cart/checkout [post]
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := h.viewModel(r).Checkout(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.CheckoutRedirect{RedirectURL: url})
	}
}
