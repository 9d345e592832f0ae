package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/auth"
	"github.com/debleena1993/KPIChatbot/pkg/models"
	"github.com/debleena1993/KPIChatbot/pkg/services"
)

// ConnectRequest is the POST /api/connect-db body.
type ConnectRequest struct {
	ConnectionID string `json:"connection_id,omitempty"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Database     string `json:"database"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Kind         string `json:"kind,omitempty"`
}

// ConnectionHandler manages per-session database connections.
type ConnectionHandler struct {
	chat   *services.ChatService
	logger *zap.Logger
}

// NewConnectionHandler creates a ConnectionHandler.
func NewConnectionHandler(chat *services.ChatService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{chat: chat, logger: logger}
}

// RegisterRoutes registers the connection routes behind the auth middleware.
func (h *ConnectionHandler) RegisterRoutes(mux *http.ServeMux, mw *auth.Middleware) {
	mux.HandleFunc("POST /api/connect-db", mw.RequireAuth(h.Connect))
	mux.HandleFunc("GET /api/schema", mw.RequireAuth(h.Schema))
	mux.HandleFunc("POST /api/connections/{id}/activate", mw.RequireAuth(h.Activate))
	mux.HandleFunc("DELETE /api/connections/{id}", mw.RequireAuth(h.Remove))
}

// Connect handles POST /api/connect-db. It registers the connection,
// activates it, and returns the extracted schema plus KPI suggestions.
func (h *ConnectionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	connectionID := strings.TrimSpace(req.ConnectionID)
	if connectionID == "" {
		connectionID = uuid.NewString()
	}
	if connectionID == models.DefaultConnectionID {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Connection id is reserved")
		return
	}

	params := models.ConnectionParams{
		Host:     req.Host,
		Port:     req.Port,
		Database: req.Database,
		Username: req.Username,
		Password: req.Password,
		Kind:     req.Kind,
	}

	result, err := h.chat.Connect(r.Context(), claims.ID, connectionID, claims.Sector, params)
	if err != nil {
		h.logger.Warn("connect failed",
			zap.String("connection_id", connectionID),
			zap.Error(err))
		writeServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{
		"connection_id":  connectionID,
		"schema":         result.Schema,
		"suggested_kpis": result.SuggestedKPIs,
	})
}

// Schema handles GET /api/schema for the active connection.
func (h *ConnectionHandler) Schema(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	schema, err := h.chat.ActiveSchema(r.Context(), claims.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]any{"schema": schema})
}

// Activate handles POST /api/connections/{id}/activate.
func (h *ConnectionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.chat.SwitchConnection(r.Context(), claims.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "activated"})
}

// Remove handles DELETE /api/connections/{id}.
func (h *ConnectionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.chat.RemoveConnection(r.Context(), claims.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
