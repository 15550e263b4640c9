package session

import (
	"context"
	"errors"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

var ErrInvalidID = errors.New("invalid session id")

// Store persists sessions between requests (server) or between runs (CLI).
type Store interface {
	// Get returns the session stored under id. A missing or expired session
	// is reported as found == false with a nil error.
	Get(ctx context.Context, id string) (*models.Session, bool, error)
	Save(ctx context.Context, sess *models.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
