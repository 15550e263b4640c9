package shopapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// productPayload is a product as the shop API encodes it.
type productPayload struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
}

func (p *productPayload) toModel() (models.Product, error) {
	sizes, err := DecodeTags(p.Sizes)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s sizes: %w", p.ID, err)
	}

	colors, err := DecodeTags(p.Colors)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s colors: %w", p.ID, err)
	}

	images := p.Images
	if images == nil {
		images = []string{}
	}

	return models.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      images,
		Sizes:       sizes,
		Colors:      colors,
	}, nil
}

func toProducts(payloads []productPayload) []models.Product {
	products := make([]models.Product, 0, len(payloads))

	for i := range payloads {
		product, err := payloads[i].toModel()
		if err != nil {
			// one bad record must not blank the whole list
			slog.Warn("Skipping malformed product", slog.String("error", err.Error()))
			continue
		}

		products = append(products, product)
	}

	return products
}

func (c *Client) productPath(format string, args ...any) string {
	return c.prefixes.product + fmt.Sprintf(format, args...)
}

func (c *Client) listProducts(ctx context.Context, path string) ([]models.Product, error) {
	var payloads []productPayload

	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &payloads); err != nil {
		return nil, err
	}

	return toProducts(payloads), nil
}

// ListProducts returns the full catalog in one call.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return c.listProducts(ctx, c.productPath("/products"))
}

func (c *Client) BestSelling(ctx context.Context) ([]models.Product, error) {
	return c.listProducts(ctx, c.productPath("/best-selling"))
}

func (c *Client) Latest(ctx context.Context) ([]models.Product, error) {
	return c.listProducts(ctx, c.productPath("/Latest"))
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var payload productPayload

	if err := c.do(ctx, request{method: http.MethodGet, path: c.productPath("/products/%s", url.PathEscape(id))}, &payload); err != nil {
		return nil, err
	}

	product, err := payload.toModel()
	if err != nil {
		return nil, appErrors.RemoteCallFailedError("Invalid product data received from server").WithError(err)
	}

	return &product, nil
}

// ProductWrite is a create or update as sent to the shop API.
type ProductWrite struct {
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Sizes       []string
	Colors      []string
	Media       []models.Upload
}

func (c *Client) CreateProduct(ctx context.Context, token string, write *ProductWrite) error {
	return c.writeProduct(ctx, http.MethodPost, c.productPath("/products"), token, write)
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, write *ProductWrite) error {
	return c.writeProduct(ctx, http.MethodPut, c.productPath("/products/%s", url.PathEscape(id)), token, write)
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   c.productPath("/products/%s", url.PathEscape(id)),
		token:  token,
	}, nil)
}

func (c *Client) writeProduct(ctx context.Context, method, path, token string, write *ProductWrite) error {
	body, contentType, err := encodeProductForm(write)
	if err != nil {
		return appErrors.InternalError("Failed to encode product").WithError(err)
	}

	return c.do(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        body,
		contentType: contentType,
	}, nil)
}

// encodeProductForm builds the multipart body: text fields, sizes and colors
// as JSON arrays, then one "media" part per upload in order.
func encodeProductForm(write *ProductWrite) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"title", write.Title},
		{"description", write.Description},
		{"category", write.Category},
		{"price", write.Price.String()},
		{"stock", fmt.Sprintf("%d", write.Stock)},
		{"sizes", EncodeTags(write.Sizes)},
		{"colors", EncodeTags(write.Colors)},
	}

	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	for _, upload := range write.Media {
		part, err := mw.CreateFormFile("media", upload.Filename)
		if err != nil {
			return nil, "", err
		}

		if _, err := io.Copy(part, upload.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", upload.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}
