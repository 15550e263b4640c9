package models

import (
	"time"
)

type CheckoutRedirect struct {
	RedirectURL string `json:"redirect_url"`
}

const CheckoutStatusSucceeded = "succeeded"

type CheckoutOutcome string

const (
	CheckoutSucceeded CheckoutOutcome = "success"
	CheckoutCancelled CheckoutOutcome = "cancelled"
	CheckoutFailed    CheckoutOutcome = "failed"
)

// CheckoutResult is shown once on return from the payment page and dismisses
// itself after DismissAfter. DismissSeconds carries the same delay to clients.
type CheckoutResult struct {
	Outcome        CheckoutOutcome `json:"outcome"`
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	RedirectTo     string          `json:"redirect_to"`
	DismissAfter   time.Duration   `json:"-"`
	DismissSeconds int             `json:"dismiss_after_seconds"`
}
