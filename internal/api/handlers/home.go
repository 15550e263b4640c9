package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type HomeHandler struct {
	homeService *service.HomeService
}

func NewHomeHandler(homeService *service.HomeService) *HomeHandler {
	return &HomeHandler{homeService: homeService}
}

// Home godoc
//
//	@Summary		Landing page
//	@Description	Best-selling (up to 4) and latest (up to 8) products. A strip that fails to load is returned empty.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	models.HomePage
//	@Router			/ [get]
func (h *HomeHandler) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := h.homeService.Page(r.Context())

		middleware.LoggerFromContext(r.Context()).Info("Home page served",
			slog.Int("bestSelling", len(page.BestSelling)), slog.Int("latest", len(page.Latest)))

		response.Success(w, http.StatusOK, page)
	}
}
