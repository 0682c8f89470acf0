package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var tokenParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// tokenExpired inspects the upstream bearer token's exp claim without
// verifying the signature; signature verification is the upstream's job.
// Tokens that cannot be parsed are treated as expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
