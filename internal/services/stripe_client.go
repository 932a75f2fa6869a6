package services

import (
	"context"
	"fmt"
	"log"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeClient handles communication with the Stripe API
type StripeClient interface {
	CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// IntentRequest carries everything needed to create a payment intent.
type IntentRequest struct {
	AmountMinor    int64
	Currency       string
	ReceiptEmail   string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

// APIStripeClient implements StripeClient using the Stripe SDK
type APIStripeClient struct {
	api *client.API
}

// NewStripeClient creates a Stripe API client for the given secret key.
func NewStripeClient(secretKey string) StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &APIStripeClient{api: api}
}

// CreatePaymentIntent creates a payment intent with automatic payment
// method detection and redirect support. The idempotency key makes a
// retried request return the original intent instead of a second charge.
func (c *APIStripeClient) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:       stripe.Int64(req.AmountMinor),
		Currency:     stripe.String(req.Currency),
		ReceiptEmail: stripe.String(req.ReceiptEmail),
		Description:  stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("always"),
		},
		SetupFutureUsage: stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	params.SetIdempotencyKey(req.IdempotencyKey)

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent creation failed: %w", err)
	}

	log.Printf("Payment intent created: %s (amount %d %s, status %s)",
		intent.ID, intent.Amount, intent.Currency, intent.Status)

	return intent, nil
}

// GetPaymentIntent retrieves a payment intent by identifier.
func (c *APIStripeClient) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	intent, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent retrieval failed: %w", err)
	}

	return intent, nil
}
