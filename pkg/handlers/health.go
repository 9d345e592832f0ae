package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/config"
)

// HealthResponse contains service status and version information.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Environment string `json:"environment"`
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler with the given configuration.
func NewHealthHandler(cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.Health)
}

// Health handles GET /api/health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "kpi-chatbot",
		GoVersion:   runtime.Version(),
		Environment: h.cfg.Env,
	})
}
