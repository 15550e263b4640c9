package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService *service.ProductService
	cartAPI        service.CartAPI
	validator      *validator.Validate
}

func NewProductHandler(productService *service.ProductService, cartAPI service.CartAPI) *ProductHandler {
	return &ProductHandler{productService: productService, cartAPI: cartAPI, validator: validator.New()}
}

// GetProduct godoc
//
//	@Summary		Product detail
//	@Description	One product with its decoded sizes and colors.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	models.Product
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		502	{object}	response.ErrorResponse	"Product could not be loaded"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// AddToCart godoc
//
//	@Summary		Add a product to the cart
//	@Description	Adds one line per selected color, each with quantity 1, in the chosen size.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Product ID"
//	@Param			body	body		models.AddToCartRequest	true	"Size and colors"
//	@Success		201		{object}	response.APIResponse
//	@Failure		400		{object}	response.ErrorResponse	"Size or color missing or not offered"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Router			/products/{id}/cart [post]
func (h *ProductHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())
		id := r.PathValue("id")

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input", slog.String("productId", id))
			return
		}

		product, err := h.productService.FetchProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		vm := service.NewCartViewModel(h.cartAPI, sess, service.CartOptions{})

		if err := vm.AddToCart(r.Context(), product, req.Size, req.Colors); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, map[string]string{"message": "Product added to the cart"})
	}
}
