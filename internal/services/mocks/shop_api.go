package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/ratelimit"
	"github.com/aaravmahajanofficial/storefront/internal/shopapi"
	"github.com/stretchr/testify/mock"
)

// ShopAPI is a testify mock of the whole shop API surface.
type ShopAPI struct {
	mock.Mock
}

func NewShopAPI() *ShopAPI {
	return &ShopAPI{}
}

func (m *ShopAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return products(args, 0), args.Error(1)
}

func (m *ShopAPI) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ShopAPI) BestSelling(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return products(args, 0), args.Error(1)
}

func (m *ShopAPI) Latest(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return products(args, 0), args.Error(1)
}

func (m *ShopAPI) GetCart(ctx context.Context, token string) ([]models.CartLine, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.CartLine), args.Error(1)
}

func (m *ShopAPI) UpdateCartLine(ctx context.Context, token string, key models.LineKey, quantity int) error {
	return m.Called(ctx, token, key, quantity).Error(0)
}

func (m *ShopAPI) DeleteCartLine(ctx context.Context, token string, key models.LineKey) error {
	return m.Called(ctx, token, key).Error(0)
}

func (m *ShopAPI) AddToCart(ctx context.Context, token string, product *models.Product, size, color string, quantity int) error {
	return m.Called(ctx, token, product, size, color, quantity).Error(0)
}

func (m *ShopAPI) CreateCheckoutSession(ctx context.Context, token string, cart *models.Cart) (string, error) {
	args := m.Called(ctx, token, cart)
	return args.String(0), args.Error(1)
}

func (m *ShopAPI) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *ShopAPI) Register(ctx context.Context, req *models.RegisterRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *ShopAPI) UserDetails(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *ShopAPI) CreateProduct(ctx context.Context, token string, write *shopapi.ProductWrite) error {
	return m.Called(ctx, token, write).Error(0)
}

func (m *ShopAPI) UpdateProduct(ctx context.Context, token, id string, write *shopapi.ProductWrite) error {
	return m.Called(ctx, token, id, write).Error(0)
}

func (m *ShopAPI) DeleteProduct(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *ShopAPI) CheckoutStatus(ctx context.Context, token, sessionID string) (string, error) {
	args := m.Called(ctx, token, sessionID)
	return args.String(0), args.Error(1)
}

func products(args mock.Arguments, i int) []models.Product {
	if args.Get(i) == nil {
		return nil
	}

	return args.Get(i).([]models.Product)
}

// LoginLimiter is a testify mock of the login attempt limiter.
type LoginLimiter struct {
	mock.Mock
}

func (m *LoginLimiter) Allow(ctx context.Context, email string) (ratelimit.Decision, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}

func (m *LoginLimiter) Reset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
