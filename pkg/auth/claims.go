// Package auth provides bearer-token authentication for the chatbot
// API. Tokens are self-issued HS256 JWTs carrying the account's sector.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Claims is the token payload. RegisteredClaims carries sub, exp, and
// iat; the sector claim scopes KPI suggestions and prompt context.
type Claims struct {
	jwt.RegisteredClaims
	Sector string `json:"sector,omitempty"`
	Role   string `json:"role,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
