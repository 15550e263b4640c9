package handlers

import (
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	resolver *service.CheckoutResolver
}

func NewCheckoutHandler(resolver *service.CheckoutResolver) *CheckoutHandler {
	return &CheckoutHandler{resolver: resolver}
}

// Result godoc
//
//	@Summary		Checkout result
//	@Description	Resolves the return from the payment page. The Refresh header sends browsers home once the result has been shown.
//	@Tags			Checkout
//	@Produce		json
//	@Param			session_id	query		string	false	"Checkout session to look up"
//	@Param			status		query		string	false	"success or cancel when no session id is given"
//	@Success		200			{object}	models.CheckoutResult
//	@Router			/checkout/result [get]
func (h *CheckoutHandler) Result() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		result := h.resolver.Resolve(r.Context(), middleware.SessionFromContext(r.Context()), service.ResultQuery{
			SessionID: query.Get("session_id"),
			Status:    query.Get("status"),
		})

		w.Header().Set("Refresh", fmt.Sprintf("%d; url=%s", result.DismissSeconds, result.RedirectTo))
		response.Success(w, http.StatusOK, result)
	}
}
