package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	bestSellingLimit = 4
	latestLimit      = 8
)

type HomeService struct {
	api CatalogAPI
}

func NewHomeService(api CatalogAPI) *HomeService {
	return &HomeService{api: api}
}

// Page fetches both product strips concurrently. A strip that fails to load
// is logged and rendered empty; the page itself never fails.
func (s *HomeService) Page(ctx context.Context) *models.HomePage {
	logger := middleware.LoggerFromContext(ctx)
	page := &models.HomePage{BestSelling: []models.Product{}, Latest: []models.Product{}}

	var g errgroup.Group

	g.Go(func() error {
		products, err := s.api.BestSelling(ctx)
		if err != nil {
			logger.Error("Failed to fetch best-selling products", slog.String("error", err.Error()))
			return nil
		}

		page.BestSelling = SanitizeProducts(truncate(products, bestSellingLimit))
		return nil
	})

	g.Go(func() error {
		products, err := s.api.Latest(ctx)
		if err != nil {
			logger.Error("Failed to fetch latest products", slog.String("error", err.Error()))
			return nil
		}

		page.Latest = SanitizeProducts(truncate(products, latestLimit))
		return nil
	})

	_ = g.Wait()

	return page
}

func truncate(products []models.Product, n int) []models.Product {
	if len(products) > n {
		return products[:n]
	}

	return products
}
