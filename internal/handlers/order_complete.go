package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nordkaliber/checkout/internal/models"
	"github.com/nordkaliber/checkout/internal/services"
)

// OrderCompleteHandler triggers notification emails for a completed order
type OrderCompleteHandler struct {
	notifications services.NotificationService
}

// NewOrderCompleteHandler creates a new order completion handler
func NewOrderCompleteHandler(notifications services.NotificationService) *OrderCompleteHandler {
	return &OrderCompleteHandler{
		notifications: notifications,
	}
}

// OrderCompleteResponse reports the notification outcome
type OrderCompleteResponse struct {
	Success    bool                 `json:"success"`
	OrderID    string               `json:"orderId"`
	EmailsSent services.EmailReport `json:"emailsSent"`
	Message    string               `json:"message"`
}

// ServeHTTP handles the order completion request
func (h *OrderCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		sendErrorResponse(w, "Invalid order data", http.StatusBadRequest)
		return
	}

	if order.Customer.Email == "" || len(order.Items) == 0 {
		sendErrorResponse(w, "Invalid order data", http.StatusBadRequest)
		return
	}

	log.Printf("Processing order completion: %s (%d items)", order.ID, len(order.Items))

	report := h.notifications.SendOrderEmails(&order)

	writeJSON(w, http.StatusOK, OrderCompleteResponse{
		Success:    true,
		OrderID:    order.ID,
		EmailsSent: report,
		Message:    "Order processed successfully",
	})
}
