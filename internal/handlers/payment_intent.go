package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nordkaliber/checkout/internal/config"
	"github.com/nordkaliber/checkout/internal/models"
	"github.com/nordkaliber/checkout/internal/ratelimit"
	"github.com/nordkaliber/checkout/internal/security"
	"github.com/nordkaliber/checkout/internal/services"
)

// PaymentIntentHandler handles payment intent creation
type PaymentIntentHandler struct {
	payments  services.PaymentService
	limiter   ratelimit.Limiter
	csrf      *security.CSRFValidator
	stripeCfg *config.StripeConfig
	serverCfg config.ServerConfig
}

// NewPaymentIntentHandler creates a new payment intent handler
func NewPaymentIntentHandler(
	payments services.PaymentService,
	limiter ratelimit.Limiter,
	csrf *security.CSRFValidator,
	stripeCfg *config.StripeConfig,
	serverCfg config.ServerConfig,
) *PaymentIntentHandler {
	return &PaymentIntentHandler{
		payments:  payments,
		limiter:   limiter,
		csrf:      csrf,
		stripeCfg: stripeCfg,
		serverCfg: serverCfg,
	}
}

// CreateIntentRequest represents the checkout request body
type CreateIntentRequest struct {
	Items           []models.CartItem `json:"items"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone"`
	CustomerAddress string            `json:"customerAddress"`
	CSRFToken       string            `json:"csrfToken"`
}

// CreateIntentResponse represents the response sent to the client
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Mode            string `json:"mode"`
	IsTestMode      bool   `json:"isTestMode"`
}

// ServeHTTP handles the payment intent creation request
func (h *PaymentIntentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip := clientIP(r)

	allowed, err := h.limiter.Allow(r.Context(), ip)
	if err != nil {
		// Throttling is advisory; a limiter outage must not block checkout.
		log.Printf("Warning: rate limiter unavailable: %v", err)
		allowed = true
	}
	if !allowed {
		log.Printf("Rate limit exceeded for %s", ip)
		sendErrorResponse(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
		return
	}

	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.csrf.Valid(req.CSRFToken) {
		log.Printf("Invalid CSRF token from %s", ip)
		sendErrorResponse(w, "Invalid CSRF token", http.StatusForbidden)
		return
	}

	testMode := h.stripeCfg.IsTestMode(r.URL.Query().Get("test") == "true")

	result, err := h.payments.CreateIntent(r.Context(), &services.CreateIntentRequest{
		Items:           req.Items,
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ClientIP:        ip,
		TestMode:        testMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidEmail):
			sendErrorResponse(w, "Invalid email format", http.StatusBadRequest)
		case errors.Is(err, models.ErrEmptyCart):
			sendErrorResponse(w, "Invalid items data", http.StatusBadRequest)
		case errors.Is(err, services.ErrAmountTooLarge):
			sendErrorResponse(w, "Payment amount exceeds maximum allowed", http.StatusBadRequest)
		default:
			log.Printf("Error creating payment intent: %v", err)
			sendErrorWithDetails(w, "Failed to create payment intent", http.StatusInternalServerError, err, h.serverCfg.IsProduction())
		}
		return
	}

	log.Printf("Payment intent created: %s (mode %s)", result.PaymentIntentID, result.Mode)

	writeJSON(w, http.StatusOK, CreateIntentResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		Mode:            result.Mode,
		IsTestMode:      result.IsTestMode,
	})
}
