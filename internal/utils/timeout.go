package utils

import (
	"context"
	"time"
)

const DefaultStoreTimeout = 3 * time.Second

// WithStoreTimeout bounds a single session store round trip.
func WithStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultStoreTimeout)
}
