package session

import (
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// InspectToken reads the expiry and role claims of a login token without
// verifying it. The shop API verifies its own tokens; the storefront only
// needs to know when to stop sending one. Opaque tokens yield zero values.
func InspectToken(token string) (time.Time, models.Role) {
	claims := &models.Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, ""
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return expiresAt, claims.Role
}
