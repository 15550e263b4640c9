package service

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
)

// The view-models depend on the slices of the shop API they use.
// *shopapi.Client satisfies all of them.

type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	BestSelling(ctx context.Context) ([]models.Product, error)
	Latest(ctx context.Context) ([]models.Product, error)
}

type CartAPI interface {
	GetCart(ctx context.Context, token string) ([]models.CartLine, error)
	UpdateCartLine(ctx context.Context, token string, key models.LineKey, quantity int) error
	DeleteCartLine(ctx context.Context, token string, key models.LineKey) error
	AddToCart(ctx context.Context, token string, product *models.Product, size, color string, quantity int) error
	CreateCheckoutSession(ctx context.Context, token string, cart *models.Cart) (string, error)
}

type AuthAPI interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	UserDetails(ctx context.Context, token string) (*models.User, error)
}

type AdminAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, write *shopapi.ProductWrite) error
	UpdateProduct(ctx context.Context, token, id string, write *shopapi.ProductWrite) error
	DeleteProduct(ctx context.Context, token, id string) error
}

type PaymentAPI interface {
	CheckoutStatus(ctx context.Context, token, sessionID string) (string, error)
}

// ShopAPI is the whole remote surface.
type ShopAPI interface {
	CatalogAPI
	CartAPI
	AuthAPI
	AdminAPI
	PaymentAPI
}

var _ ShopAPI = (*shopapi.Client)(nil)
