package shopapi

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse

	if err := c.do(ctx, request{method: http.MethodPost, path: c.prefixes.auth + "/login", body: req}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: c.prefixes.auth + "/register", body: req}, nil)
}

func (c *Client) UserDetails(ctx context.Context, token string) (*models.User, error) {
	var user models.User

	if err := c.do(ctx, request{method: http.MethodGet, path: c.prefixes.auth + "/user/details", token: token}, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
