package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CatalogHandler struct {
	api service.CatalogAPI
}

func NewCatalogHandler(api service.CatalogAPI) *CatalogHandler {
	return &CatalogHandler{api: api}
}

// Collections godoc
//
//	@Summary		Browse the catalog
//	@Description	Lists products filtered by category and search text and sorted by price.
//	@Tags			Catalog
//	@Produce		json
//	@Param			category	query		[]string				false	"Categories, repeatable or comma separated"
//	@Param			search		query		string					false	"Case-insensitive text matched against title and category"
//	@Param			sort		query		string					false	"asc or desc by price"
//	@Success		200			{object}	models.CatalogPage
//	@Failure		502			{object}	response.ErrorResponse	"Catalog could not be loaded"
//	@Router			/collections [get]
func (h *CatalogHandler) Collections() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		view := service.NewCatalogView(h.api)
		defer view.Close()

		if err := view.Load(r.Context()); err != nil {
			logger.Warn("Catalog unavailable")
			response.Error(w, err)
			return
		}

		query := r.URL.Query()
		view.SetFilter(splitQuery(query["category"]), query.Get("search"))
		view.SetSort(service.ParseSortOrder(query.Get("sort")))

		response.Success(w, http.StatusOK, view.Page())
	}
}

// splitQuery accepts both ?category=a&category=b and ?category=a,b.
func splitQuery(values []string) []string {
	var out []string

	for _, v := range values {
		out = append(out, service.SplitTags(v)...)
	}

	return out
}
