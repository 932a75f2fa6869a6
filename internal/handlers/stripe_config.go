package handlers

import (
	"net/http"

	"github.com/nordkaliber/checkout/internal/config"
)

// StripeConfigHandler exposes the publishable key for client-side
// processor initialization
type StripeConfigHandler struct {
	stripeCfg *config.StripeConfig
}

// NewStripeConfigHandler creates a new Stripe config handler
func NewStripeConfigHandler(stripeCfg *config.StripeConfig) *StripeConfigHandler {
	return &StripeConfigHandler{
		stripeCfg: stripeCfg,
	}
}

// StripeConfigResponse represents the client configuration
type StripeConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
	Mode           string `json:"mode"`
	IsTestMode     bool   `json:"isTestMode"`
}

// ServeHTTP handles the config request
func (h *StripeConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.stripeCfg.PublishableKey == "" {
		sendErrorResponse(w, "Stripe configuration not found", http.StatusInternalServerError)
		return
	}

	testMode := h.stripeCfg.IsTestMode(false)

	writeJSON(w, http.StatusOK, StripeConfigResponse{
		PublishableKey: h.stripeCfg.PublishableKey,
		Mode:           config.ModeLabel(testMode),
		IsTestMode:     testMode,
	})
}
