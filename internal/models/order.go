package models

import "encoding/json"

// Customer is the contact information attached to an order.
type Customer struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is the order data reconstructed from a verified payment event or
// submitted directly to the order-completion endpoint. It drives the
// transactional emails; the processor remains the system of record.
type Order struct {
	ID            string     `json:"orderId"`
	Customer      Customer   `json:"customer"`
	Items         []CartItem `json:"items"`
	Total         float64    `json:"total"`
	Currency      string     `json:"currency,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// HasSpecialRequest reports whether any item in the order carries a special
// request; such orders are flagged high priority for production.
func (o *Order) HasSpecialRequest() bool {
	for _, item := range o.Items {
		if item.HasSpecialRequest() {
			return true
		}
	}
	return false
}

// OrderFromMetadata reconstructs an order from a payment intent's metadata
// and normalized fields. The receipt email wins over the metadata copy when
// both are present. An unparsable item list degrades to an empty list; the
// notification must still go out.
func OrderFromMetadata(intentID string, amountMinor int64, currency, receiptEmail string, metadata map[string]string) *Order {
	email := receiptEmail
	if email == "" {
		email = metadata["customer_email"]
	}

	name := metadata["customer_name"]
	if name == "" {
		name = "Unknown"
	}

	var items []CartItem
	if raw := metadata["items"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			items = nil
		}
	}

	return &Order{
		ID: intentID,
		Customer: Customer{
			Email:   email,
			Name:    name,
			Phone:   metadata["customer_phone"],
			Address: metadata["customer_address"],
		},
		Items:    items,
		Total:    MajorUnits(amountMinor),
		Currency: currency,
		Status:   "paid",
	}
}
