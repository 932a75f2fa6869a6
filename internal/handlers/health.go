package handlers

import (
	"net/http"
	"time"

	"github.com/nordkaliber/checkout/internal/config"
)

// HealthHandler reports service liveness
type HealthHandler struct {
	serverCfg config.ServerConfig
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serverCfg config.ServerConfig) *HealthHandler {
	return &HealthHandler{serverCfg: serverCfg}
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// ServeHTTP handles the health check request
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Environment: h.serverCfg.Environment,
	})
}
