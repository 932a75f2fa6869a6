package handlers

import (
	"log"
	"net/http"

	"github.com/nordkaliber/checkout/internal/config"
	"github.com/nordkaliber/checkout/internal/services"
)

// PaymentDetailsHandler handles payment detail lookups
type PaymentDetailsHandler struct {
	payments  services.PaymentService
	stripeCfg *config.StripeConfig
	serverCfg config.ServerConfig
}

// NewPaymentDetailsHandler creates a new payment details handler
func NewPaymentDetailsHandler(payments services.PaymentService, stripeCfg *config.StripeConfig, serverCfg config.ServerConfig) *PaymentDetailsHandler {
	return &PaymentDetailsHandler{
		payments:  payments,
		stripeCfg: stripeCfg,
		serverCfg: serverCfg,
	}
}

// PaymentDetailsResponse represents the normalized intent sent to the client
type PaymentDetailsResponse struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountInKronor float64           `json:"amountInKronor"`
	Currency       string            `json:"currency"`
	Status         string            `json:"status"`
	Mode           string            `json:"mode"`
	IsTestMode     bool              `json:"isTestMode"`
	CustomerEmail  string            `json:"customerEmail"`
	Description    string            `json:"description"`
	Metadata       map[string]string `json:"metadata"`
}

// ServeHTTP handles the payment details request
func (h *PaymentDetailsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	intentID := r.URL.Query().Get("payment_intent")
	if intentID == "" {
		sendErrorResponse(w, "Payment intent ID is required", http.StatusBadRequest)
		return
	}

	testMode := h.stripeCfg.IsTestMode(r.URL.Query().Get("test") == "true")

	details, err := h.payments.RetrieveIntent(r.Context(), intentID, testMode)
	if err != nil {
		log.Printf("Error fetching payment details for %s: %v", intentID, err)
		sendErrorWithDetails(w, "Internal server error", http.StatusInternalServerError, err, h.serverCfg.IsProduction())
		return
	}

	writeJSON(w, http.StatusOK, PaymentDetailsResponse{
		ID:             details.ID,
		Amount:         details.AmountMinor,
		AmountInKronor: details.AmountMajor,
		Currency:       details.Currency,
		Status:         details.Status,
		Mode:           details.Mode,
		IsTestMode:     details.IsTestMode,
		CustomerEmail:  details.CustomerEmail,
		Description:    details.Description,
		Metadata:       details.Metadata,
	})
}
