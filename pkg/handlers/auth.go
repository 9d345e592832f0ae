package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/auth"
)

// LoginRequest is the POST /api/login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and account scope.
type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	Sector    string `json:"sector"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	accounts *auth.AccountStore
	issuer   *auth.TokenIssuer
	logger   *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts *auth.AccountStore, issuer *auth.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, issuer: issuer, logger: logger}
}

// RegisterRoutes registers the auth routes on the given mux. The
// logout route goes through the auth middleware.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", mw.RequireAuth(h.Logout))
}

// Login handles POST /api/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	account, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Info("login rejected", zap.String("username", req.Username))
			_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
			return
		}
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	token, claims, err := h.issuer.Issue(account)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	h.logger.Info("login succeeded",
		zap.String("username", account.Username),
		zap.String("sector", account.Sector))

	_ = WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		Username:  account.Username,
		Sector:    account.Sector,
		Role:      account.Role,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

// Logout handles POST /api/logout requests. Tokens are stateless, so
// logout acknowledges and lets the client discard its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims, ok := auth.GetClaims(r.Context()); ok {
		h.logger.Info("logout", zap.String("username", claims.Subject))
	}
	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
