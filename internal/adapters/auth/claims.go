package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime reads iat and exp from a JWT access token without verifying it.
// Opaque tokens yield zero times.
func tokenLifetime(accessToken string) (issuedAt time.Time, expiresAt time.Time) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, time.Time{}
	}

	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.UTC()
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.UTC()
	}
	return issuedAt, expiresAt
}
