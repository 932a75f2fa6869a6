package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/nordkaliber/checkout/internal/models"
)

// EventLedger records processed webhook event ids so redelivered events
// are not dispatched twice.
type EventLedger interface {
	MarkProcessed(eventID, eventType string) (bool, error)
}

// Webhook errors surfaced to the HTTP layer.
var (
	ErrWebhookSecretNotConfigured = errors.New("webhook secret not configured")
	ErrInvalidSignature           = errors.New("webhook signature verification failed")
)

// WebhookService verifies and dispatches processor webhook events
type WebhookService interface {
	HandleEvent(payload []byte, signatureHeader string) error
}

// WebhookProcessor authenticates inbound webhook payloads and dispatches
// verified events. Downstream notification failures never surface as
// handler errors: once the signature checks out, the event is acked.
type WebhookProcessor struct {
	secret        string
	ledger        EventLedger
	notifications NotificationService
}

// NewWebhookProcessor creates a new webhook processor. A nil ledger
// disables dedup; deliveries are then handled as they arrive.
func NewWebhookProcessor(secret string, ledger EventLedger, notifications NotificationService) *WebhookProcessor {
	return &WebhookProcessor{
		secret:        secret,
		ledger:        ledger,
		notifications: notifications,
	}
}

// HandleEvent verifies the payload signature and dispatches the event.
func (p *WebhookProcessor) HandleEvent(payload []byte, signatureHeader string) error {
	if p.secret == "" {
		return ErrWebhookSecretNotConfigured
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, p.secret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	log.Printf("Webhook event received: %s (%s)", event.Type, event.ID)

	if p.ledger != nil {
		first, err := p.ledger.MarkProcessed(event.ID, string(event.Type))
		if err != nil {
			// Fail open: a ledger outage must not drop payment events.
			log.Printf("Warning: event ledger unavailable, dispatching without dedup: %v", err)
		} else if !first {
			log.Printf("Duplicate delivery of event %s, skipping dispatch", event.ID)
			return nil
		}
	}

	p.dispatch(event)
	return nil
}

func (p *WebhookProcessor) dispatch(event stripe.Event) {
	switch event.Type {
	case "payment_intent.succeeded":
		intent, err := paymentIntentFromEvent(event)
		if err != nil {
			log.Printf("Error parsing payment intent from event %s: %v", event.ID, err)
			return
		}
		p.handlePaymentSucceeded(intent)

	case "payment_intent.payment_failed":
		intent, err := paymentIntentFromEvent(event)
		if err != nil {
			log.Printf("Error parsing payment intent from event %s: %v", event.ID, err)
			return
		}
		reason := "Unknown error"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			reason = intent.LastPaymentError.Msg
		}
		log.Printf("Payment failed for %s: %s", intent.ID, reason)

	case "payment_intent.requires_action":
		intent, err := paymentIntentFromEvent(event)
		if err != nil {
			log.Printf("Error parsing payment intent from event %s: %v", event.ID, err)
			return
		}
		// 3DS and bank redirects; the client follows the redirect itself.
		if intent.NextAction != nil && intent.NextAction.RedirectToURL != nil {
			log.Printf("Payment %s requires action, redirect to %s", intent.ID, intent.NextAction.RedirectToURL.URL)
		} else {
			log.Printf("Payment %s requires action", intent.ID)
		}

	case "payment_intent.created":
		intent, err := paymentIntentFromEvent(event)
		if err != nil {
			log.Printf("Error parsing payment intent from event %s: %v", event.ID, err)
			return
		}
		log.Printf("Payment intent created: %s (amount %d %s, status %s)",
			intent.ID, intent.Amount, intent.Currency, intent.Status)

	case "payment_method.attached":
		log.Printf("Payment method attached for event %s", event.ID)

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("Error parsing checkout session from event %s: %v", event.ID, err)
			return
		}
		p.handleCheckoutSessionCompleted(&session)

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}
}

func (p *WebhookProcessor) handlePaymentSucceeded(intent *stripe.PaymentIntent) {
	order := models.OrderFromMetadata(intent.ID, intent.Amount, string(intent.Currency), intent.ReceiptEmail, intent.Metadata)
	if len(intent.PaymentMethodTypes) > 0 {
		order.PaymentMethod = intent.PaymentMethodTypes[0]
	}

	report := p.notifications.SendOrderEmails(order)
	log.Printf("Payment succeeded for %s, emails: customer=%v production=%v",
		intent.ID, report.CustomerEmailSent, report.ProductionEmailSent)
}

func (p *WebhookProcessor) handleCheckoutSessionCompleted(session *stripe.CheckoutSession) {
	email := session.CustomerEmail
	name := "Unknown"
	phone := ""
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			email = session.CustomerDetails.Email
		}
		if session.CustomerDetails.Name != "" {
			name = session.CustomerDetails.Name
		}
		phone = session.CustomerDetails.Phone
	}

	order := &models.Order{
		ID: session.ID,
		Customer: models.Customer{
			Email: email,
			Name:  name,
			Phone: phone,
		},
		Total:    models.MajorUnits(session.AmountTotal),
		Currency: string(session.Currency),
		Status:   "paid",
	}
	if len(session.PaymentMethodTypes) > 0 {
		order.PaymentMethod = session.PaymentMethodTypes[0]
	}

	report := p.notifications.SendOrderEmails(order)
	log.Printf("Checkout session %s completed, emails: customer=%v production=%v",
		session.ID, report.CustomerEmailSent, report.ProductionEmailSent)
}

func paymentIntentFromEvent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
