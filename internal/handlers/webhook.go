package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/nordkaliber/checkout/internal/services"
)

// webhookBodyLimit bounds the raw payload read from the processor.
const webhookBodyLimit = 1 << 20 // 1MiB

// WebhookHandler handles inbound processor webhooks. Signature
// verification is the authentication mechanism for this endpoint.
type WebhookHandler struct {
	webhooks services.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhooks services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
	}
}

// WebhookResponse acknowledges a verified event
type WebhookResponse struct {
	Received bool `json:"received"`
}

// ServeHTTP handles the webhook request
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		sendErrorResponse(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")

	err = h.webhooks.HandleEvent(payload, signature)
	switch {
	case err == nil:
		// Always acknowledge once verified; a failed email must not make
		// the processor retry delivery.
		writeJSON(w, http.StatusOK, WebhookResponse{Received: true})
	case errors.Is(err, services.ErrWebhookSecretNotConfigured):
		log.Printf("Webhook rejected: %v", err)
		sendErrorResponse(w, "Webhook secret not configured", http.StatusInternalServerError)
	case errors.Is(err, services.ErrInvalidSignature):
		log.Printf("Webhook signature verification failed: %v", err)
		http.Error(w, fmt.Sprintf("Webhook Error: %v", err), http.StatusBadRequest)
	default:
		log.Printf("Webhook processing failed: %v", err)
		sendErrorResponse(w, "Webhook processing failed", http.StatusInternalServerError)
	}
}
