package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

const (
	msgPaymentSucceeded = "Payment Successful! Your order has been placed."
	msgPaymentFailed    = "Payment Failed. Please try again."
	msgPaymentCancelled = "Payment Failed or Cancelled. Please try again."
	msgPaymentUnknown   = "An error occurred. Please try again."
	msgPaymentError     = "An error occurred while processing your payment."
)

// ResultQuery is what the payment page appends to the return URL: either a
// checkout session id to look up, or a bare status code.
type ResultQuery struct {
	SessionID string
	Status    string
}

// CheckoutResolver turns the return from the payment page into the one-shot
// result shown before the visitor is sent home.
type CheckoutResolver struct {
	checker      PaymentAPI
	dismissAfter time.Duration
}

func NewCheckoutResolver(checker PaymentAPI, dismissAfter time.Duration) *CheckoutResolver {
	return &CheckoutResolver{checker: checker, dismissAfter: dismissAfter}
}

func (r *CheckoutResolver) Resolve(ctx context.Context, sess *models.Session, q ResultQuery) *models.CheckoutResult {
	logger := middleware.LoggerFromContext(ctx)

	if sessionID := strings.TrimSpace(q.SessionID); sessionID != "" {
		var token string
		if sess != nil {
			token = sess.Token
		}

		status, err := r.checker.CheckoutStatus(ctx, token, sessionID)
		if err != nil {
			logger.Error("Error checking payment status", slog.String("sessionId", sessionID), slog.String("error", err.Error()))
			return r.result(models.CheckoutFailed, msgPaymentError)
		}

		if status == models.CheckoutStatusSucceeded {
			logger.Info("Payment confirmed", slog.String("sessionId", sessionID))
			return r.result(models.CheckoutSucceeded, msgPaymentSucceeded)
		}

		logger.Warn("Payment not completed", slog.String("sessionId", sessionID), slog.String("status", status))
		return r.result(models.CheckoutFailed, msgPaymentFailed)
	}

	switch q.Status {
	case "success":
		return r.result(models.CheckoutSucceeded, msgPaymentSucceeded)
	case "cancel":
		return r.result(models.CheckoutCancelled, msgPaymentCancelled)
	default:
		return r.result(models.CheckoutFailed, msgPaymentUnknown)
	}
}

func (r *CheckoutResolver) result(outcome models.CheckoutOutcome, message string) *models.CheckoutResult {
	return &models.CheckoutResult{
		Outcome:        outcome,
		Success:        outcome == models.CheckoutSucceeded,
		Message:        message,
		RedirectTo:     "/",
		DismissAfter:   r.dismissAfter,
		DismissSeconds: int((r.dismissAfter + time.Second - 1) / time.Second),
	}
}
