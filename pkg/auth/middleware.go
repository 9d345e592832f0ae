package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware validates bearer tokens on protected endpoints and puts
// the claims in the request context.
type Middleware struct {
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewMiddleware creates an auth middleware backed by the token issuer.
func NewMiddleware(issuer *TokenIssuer, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{issuer: issuer, logger: logger.Named("auth")}
}

// RequireAuth validates the Authorization header and sets claims in
// context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorized(w, "Authentication required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Debug("invalid authorization header format")
			m.unauthorized(w, "Invalid authorization header")
			return
		}

		claims, err := m.issuer.Verify(parts[1])
		if err != nil {
			m.logger.Debug("token verification failed", zap.Error(err))
			m.unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
