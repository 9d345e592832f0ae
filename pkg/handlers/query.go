package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/auth"
	"github.com/debleena1993/KPIChatbot/pkg/services"
)

// QueryRequest is the POST /api/query-kpi body.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryHandler answers natural-language KPI questions.
type QueryHandler struct {
	chat   *services.ChatService
	logger *zap.Logger
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(chat *services.ChatService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{chat: chat, logger: logger}
}

// RegisterRoutes registers the query route behind the auth middleware.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/query-kpi", mw.RequireAuth(h.Query))
}

// Query handles POST /api/query-kpi requests.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Question must not be empty")
		return
	}

	result, err := h.chat.Ask(r.Context(), claims.ID, question, claims.Sector)
	if err != nil {
		h.logger.Warn("query failed", zap.Error(err))
		writeServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"sql":    result.SQL,
		"origin": result.Origin,
		"result": result.Envelope,
	})
}
