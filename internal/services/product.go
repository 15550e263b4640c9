package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type ProductService struct {
	api CatalogAPI
}

func NewProductService(api CatalogAPI) *ProductService {
	return &ProductService{api: api}
}

// GetProduct loads one product for the detail page, with its text cleaned for
// display. Its sizes and colors are already decoded by the client.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.FetchProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	clean := SanitizeProducts([]models.Product{*product})[0]

	return &clean, nil
}

// FetchProduct loads one product exactly as the shop API holds it. Use it for
// anything written back upstream, such as a cart line.
func (s *ProductService) FetchProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, errors.BadRequestError("Product ID is required")
	}

	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to fetch product",
			slog.String("productId", id), slog.String("error", err.Error()))

		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, appErr
		}

		return nil, errors.LoadFailedError("Failed to load product").WithError(err)
	}

	return product, nil
}
