package shopapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type cartEntryPayload struct {
	Product    *productPayload `json:"product"`
	Quantity   int             `json:"quantity"`
	Size       string          `json:"size"`
	Color      string          `json:"color"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type cartPayload struct {
	Products   *[]cartEntryPayload `json:"products"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
}

// GetCart returns the remote cart lines with the quantities the server
// reports. A body without a products array is rejected.
func (c *Client) GetCart(ctx context.Context, token string) ([]models.CartLine, error) {
	var payload cartPayload

	if err := c.do(ctx, request{method: http.MethodGet, path: c.prefixes.cart + "/cart", token: token}, &payload); err != nil {
		return nil, err
	}

	if payload.Products == nil {
		return nil, appErrors.RemoteCallFailedError("Invalid cart data received from server")
	}

	lines := make([]models.CartLine, 0, len(*payload.Products))

	for _, entry := range *payload.Products {
		var product models.Product

		if entry.Product != nil {
			p, err := entry.Product.toModel()
			if err != nil {
				slog.Warn("Cart entry has malformed product tags", slog.String("error", err.Error()))
				p = models.Product{ID: entry.Product.ID, Title: entry.Product.Title, Category: entry.Product.Category, Price: entry.Product.Price, Images: entry.Product.Images}
			}

			product = p
		}

		lines = append(lines, models.CartLine{
			Product:  product,
			Size:     entry.Size,
			Color:    entry.Color,
			Quantity: entry.Quantity,
		})
	}

	return lines, nil
}

type updateLineBody struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

func (c *Client) UpdateCartLine(ctx context.Context, token string, key models.LineKey, quantity int) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   c.prefixes.cart + "/cart/" + url.PathEscape(key.ProductID),
		token:  token,
		body:   updateLineBody{Quantity: quantity, Size: key.Size, Color: key.Color},
	}, nil)
}

type deleteLineBody struct {
	Size  string `json:"size"`
	Color string `json:"color"`
}

func (c *Client) DeleteCartLine(ctx context.Context, token string, key models.LineKey) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   c.prefixes.cart + "/cart/" + url.PathEscape(key.ProductID),
		token:  token,
		body:   deleteLineBody{Size: key.Size, Color: key.Color},
	}, nil)
}

type addToCartBody struct {
	ProductID   string          `json:"productId"`
	Quantity    int             `json:"quantity"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
}

// AddToCart posts one line for product in the given size and color.
func (c *Client) AddToCart(ctx context.Context, token string, product *models.Product, size, color string, quantity int) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   c.prefixes.cart + "/cart",
		token:  token,
		body: addToCartBody{
			ProductID:   product.ID,
			Quantity:    quantity,
			Size:        size,
			Color:       color,
			Title:       product.Title,
			Price:       product.Price,
			Description: product.Description,
			Image:       product.MainImage(),
		},
	}, nil)
}
