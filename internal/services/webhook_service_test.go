package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/nordkaliber/checkout/internal/models"
)

const testWebhookSecret = "whsec_test_secret"

// MockNotificationService is a mock implementation of NotificationService for testing
type MockNotificationService struct {
	SendOrderEmailsFunc func(*models.Order) EmailReport
	Orders              []*models.Order
}

func (m *MockNotificationService) SendOrderEmails(order *models.Order) EmailReport {
	m.Orders = append(m.Orders, order)
	if m.SendOrderEmailsFunc != nil {
		return m.SendOrderEmailsFunc(order)
	}
	return EmailReport{CustomerEmailSent: true, ProductionEmailSent: true}
}

// MockEventLedger is a mock implementation of EventLedger for testing
type MockEventLedger struct {
	MarkProcessedFunc func(eventID, eventType string) (bool, error)
	seen              map[string]bool
}

func (m *MockEventLedger) MarkProcessed(eventID, eventType string) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(eventID, eventType)
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}

// signPayload signs an event payload the way the processor would.
func signPayload(t *testing.T, payload []byte, secret string) (body []byte, header string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func succeededEventPayload(eventID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123",
				"amount": 45000,
				"currency": "sek",
				"receipt_email": "a@b.com",
				"payment_method_types": ["card"],
				"metadata": {
					"customer_email": "a@b.com",
					"customer_name": "Erik Svensson",
					"items": "[]"
				}
			}
		}
	}`, eventID, stripe.APIVersion))
}

func TestWebhookProcessor_HandleEvent(t *testing.T) {
	t.Run("secret not configured fails closed", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor("", nil, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), testWebhookSecret)
		err := processor.HandleEvent(body, header)

		if !errors.Is(err, ErrWebhookSecretNotConfigured) {
			t.Errorf("HandleEvent() error = %v, want ErrWebhookSecretNotConfigured", err)
		}
		if len(notifications.Orders) != 0 {
			t.Error("no dispatch should happen without a configured secret")
		}
	})

	t.Run("signature from wrong secret is rejected", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), "whsec_other_secret")
		err := processor.HandleEvent(body, header)

		if !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("HandleEvent() error = %v, want ErrInvalidSignature", err)
		}
		if len(notifications.Orders) != 0 {
			t.Error("no dispatch should happen on a bad signature")
		}
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), testWebhookSecret)
		tampered := append([]byte{}, body...)
		tampered[len(tampered)-2] = ' '

		if err := processor.HandleEvent(tampered, header); !errors.Is(err, ErrInvalidSignature) {
			t.Errorf("HandleEvent() error = %v, want ErrInvalidSignature", err)
		}
		if len(notifications.Orders) != 0 {
			t.Error("no dispatch should happen on a tampered body")
		}
	})

	t.Run("payment succeeded dispatches reconstructed order", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Fatalf("HandleEvent() error: %v", err)
		}

		if len(notifications.Orders) != 1 {
			t.Fatalf("dispatch count = %d, want 1", len(notifications.Orders))
		}
		order := notifications.Orders[0]
		if order.ID != "pi_123" {
			t.Errorf("order ID = %q, want pi_123", order.ID)
		}
		if order.Customer.Email != "a@b.com" {
			t.Errorf("order email = %q, want a@b.com", order.Customer.Email)
		}
		if order.Total != 450 {
			t.Errorf("order total = %v, want 450 major units", order.Total)
		}
		if order.PaymentMethod != "card" {
			t.Errorf("payment method = %q, want card", order.PaymentMethod)
		}
	})

	t.Run("notification failure does not fail the event", func(t *testing.T) {
		notifications := &MockNotificationService{
			SendOrderEmailsFunc: func(*models.Order) EmailReport {
				return EmailReport{} // both sends failed
			},
		}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Errorf("HandleEvent() error = %v, want nil despite email failures", err)
		}
	})

	t.Run("duplicate delivery dispatches once", func(t *testing.T) {
		notifications := &MockNotificationService{}
		ledger := &MockEventLedger{}
		processor := NewWebhookProcessor(testWebhookSecret, ledger, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_dup"), testWebhookSecret)
		for i := 0; i < 3; i++ {
			if err := processor.HandleEvent(body, header); err != nil {
				t.Fatalf("HandleEvent() delivery %d error: %v", i, err)
			}
		}

		if len(notifications.Orders) != 1 {
			t.Errorf("dispatch count = %d, want 1 despite redelivery", len(notifications.Orders))
		}
	})

	t.Run("ledger outage fails open", func(t *testing.T) {
		notifications := &MockNotificationService{}
		ledger := &MockEventLedger{
			MarkProcessedFunc: func(string, string) (bool, error) {
				return false, errors.New("database unavailable")
			},
		}
		processor := NewWebhookProcessor(testWebhookSecret, ledger, notifications)

		body, header := signPayload(t, succeededEventPayload("evt_1"), testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Fatalf("HandleEvent() error: %v", err)
		}
		if len(notifications.Orders) != 1 {
			t.Error("a ledger outage must not drop the event")
		}
	})

	t.Run("checkout session completed dispatches order", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		payload := []byte(fmt.Sprintf(`{
			"id": "evt_cs",
			"api_version": %q,
			"type": "checkout.session.completed",
			"data": {
				"object": {
					"id": "cs_123",
					"amount_total": 65000,
					"currency": "sek",
					"payment_method_types": ["card"],
					"customer_details": {
						"email": "a@b.com",
						"name": "Erik Svensson",
						"phone": "46701234567"
					}
				}
			}
		}`, stripe.APIVersion))
		body, header := signPayload(t, payload, testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Fatalf("HandleEvent() error: %v", err)
		}

		if len(notifications.Orders) != 1 {
			t.Fatalf("dispatch count = %d, want 1", len(notifications.Orders))
		}
		order := notifications.Orders[0]
		if order.ID != "cs_123" || order.Total != 650 {
			t.Errorf("order = %+v", order)
		}
	})

	t.Run("payment failed logs without dispatch", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		payload := []byte(fmt.Sprintf(`{
			"id": "evt_pf",
			"api_version": %q,
			"type": "payment_intent.payment_failed",
			"data": {
				"object": {
					"id": "pi_123",
					"last_payment_error": {"message": "card declined"}
				}
			}
		}`, stripe.APIVersion))
		body, header := signPayload(t, payload, testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Fatalf("HandleEvent() error: %v", err)
		}
		if len(notifications.Orders) != 0 {
			t.Error("failed payments must not trigger order emails")
		}
	})

	t.Run("unrecognized event type is acknowledged", func(t *testing.T) {
		notifications := &MockNotificationService{}
		processor := NewWebhookProcessor(testWebhookSecret, nil, notifications)

		payload := []byte(fmt.Sprintf(`{"id": "evt_x", "api_version": %q, "type": "customer.created", "data": {"object": {"id": "cus_1"}}}`, stripe.APIVersion))
		body, header := signPayload(t, payload, testWebhookSecret)
		if err := processor.HandleEvent(body, header); err != nil {
			t.Errorf("HandleEvent() error = %v, want nil for unhandled types", err)
		}
		if len(notifications.Orders) != 0 {
			t.Error("unhandled types must not dispatch")
		}
	})
}
