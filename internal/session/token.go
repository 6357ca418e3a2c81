package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT bearer token without verifying it.
// The signature is the backend's concern; this is only used for display.
// ok is false when the token is not a JWT or carries no expiry.
func TokenExpiry(token string) (expiresAt time.Time, ok bool, err error) {
	if token == "" {
		return time.Time{}, false, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
