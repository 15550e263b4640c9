package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/balance"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
)

// StatusSucceeded is reported for a checkout session that needs no further payment.
const StatusSucceeded = "succeeded"

// Client reads checkout sessions straight from Stripe. It is used when the
// storefront holds its own restricted key instead of asking the shop API.
type Client struct{}

func NewClient(apiKey string) *Client {
	stripe.Key = apiKey

	return &Client{}
}

// CheckoutStatus maps a checkout session's payment status onto the shop
// API's vocabulary. The bearer token is not needed here.
func (c *Client) CheckoutStatus(ctx context.Context, _ string, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	switch sess.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return StatusSucceeded, nil
	default:
		return string(sess.PaymentStatus), nil
	}
}

// Ping checks that the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	params := &stripe.BalanceParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	if _, err := balance.Get(params); err != nil {
		return fmt.Errorf("failed to connect to stripe: %w", err)
	}

	return nil
}
