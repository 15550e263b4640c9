package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

const noProductsMessage = "No products found."

// CatalogView fetches the catalog once and filters and sorts it locally.
// Results are recomputed whenever the product list, the filter or the sort
// order changes.
type CatalogView struct {
	api   CatalogAPI
	loads loader

	mu         sync.Mutex
	products   []models.Product
	categories []string
	selected   []string
	search     string
	order      models.SortOrder
	results    []models.Product
}

func NewCatalogView(api CatalogAPI) *CatalogView {
	return &CatalogView{
		api:        api,
		categories: DeriveCategories(nil),
		results:    []models.Product{},
	}
}

// Load replaces the product list with the shop API's current catalog.
func (v *CatalogView) Load(ctx context.Context) error {
	logger := middleware.LoggerFromContext(ctx)

	ctx, gen := v.loads.begin(ctx)
	defer v.loads.end(gen)

	products, err := v.api.ListProducts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.loads.current(gen) {
		return ErrSuperseded
	}

	if err != nil {
		logger.Error("Failed to load products", slog.String("error", err.Error()))
		return errors.LoadFailedError("Failed to load products").WithError(err)
	}

	v.products = SanitizeProducts(products)
	v.categories = DeriveCategories(v.products)
	v.recompute()

	logger.Info("Catalog loaded", slog.Int("products", len(v.products)))

	return nil
}

func (v *CatalogView) SetFilter(categories []string, search string) []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.selected = slices.Clone(categories)
	v.search = search
	v.recompute()

	return slices.Clone(v.results)
}

func (v *CatalogView) SetSort(order models.SortOrder) []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.order = order
	v.recompute()

	return slices.Clone(v.results)
}

func (v *CatalogView) recompute() {
	v.results = SortProducts(FilterProducts(v.products, v.selected, v.search), v.order)
}

func (v *CatalogView) Results() []models.Product {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.results)
}

func (v *CatalogView) Categories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.categories)
}

func (v *CatalogView) Empty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.results) == 0
}

func (v *CatalogView) Page() *models.CatalogPage {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := &models.CatalogPage{
		Products:   slices.Clone(v.results),
		Categories: slices.Clone(v.categories),
		Selected:   slices.Clone(v.selected),
		Search:     v.search,
		Sort:       v.order,
		Empty:      len(v.results) == 0,
	}

	if page.Products == nil {
		page.Products = []models.Product{}
	}

	if page.Selected == nil {
		page.Selected = []string{}
	}

	if page.Empty {
		page.Message = noProductsMessage
	}

	return page
}

// Close cancels an in-flight load; its result will be dropped.
func (v *CatalogView) Close() {
	v.loads.close()
}

// SanitizeProducts strips markup from text that came from the shop API.
func SanitizeProducts(products []models.Product) []models.Product {
	clean := make([]models.Product, len(products))

	for i, p := range products {
		p.Title = utils.StripTags(p.Title)
		p.Category = utils.StripTags(p.Category)
		p.Description = utils.CleanRichText(p.Description)
		clean[i] = p
	}

	return clean
}
