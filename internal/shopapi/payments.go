package shopapi

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

type checkoutSnapshot struct {
	Products   []cartEntryPayload `json:"products"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

type checkoutSessionBody struct {
	Cart checkoutSnapshot `json:"cart"`
}

type checkoutSessionResponse struct {
	URL string `json:"url"`
}

func snapshot(cart *models.Cart) checkoutSnapshot {
	snap := checkoutSnapshot{Products: make([]cartEntryPayload, 0, len(cart.Lines)), TotalPrice: cart.Total()}

	for _, line := range cart.Lines {
		product := productPayload{
			ID:          line.Product.ID,
			Title:       line.Product.Title,
			Description: line.Product.Description,
			Category:    line.Product.Category,
			Price:       line.Product.Price,
			Stock:       line.Product.Stock,
			Images:      line.Product.Images,
			Sizes:       line.Product.Sizes,
			Colors:      line.Product.Colors,
		}

		snap.Products = append(snap.Products, cartEntryPayload{
			Product:    &product,
			Quantity:   line.Quantity,
			Size:       line.Size,
			Color:      line.Color,
			TotalPrice: line.LineTotal(),
		})
	}

	return snap
}

// CreateCheckoutSession hands the cart to the payment session creator and
// returns the redirect URL it answers with, which may be empty.
func (c *Client) CreateCheckoutSession(ctx context.Context, token string, cart *models.Cart) (string, error) {
	var resp checkoutSessionResponse

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.prefixes.payment + "/create-checkout-session",
		token:  token,
		body:   checkoutSessionBody{Cart: snapshot(cart)},
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.URL, nil
}

type statusBody struct {
	SessionID string `json:"sessionId"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (c *Client) CheckoutStatus(ctx context.Context, token, sessionID string) (string, error) {
	var resp statusResponse

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.prefixes.payment + "/status",
		token:  token,
		body:   statusBody{SessionID: sessionID},
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Status, nil
}
