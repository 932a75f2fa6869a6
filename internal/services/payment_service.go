package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nordkaliber/checkout/internal/config"
	"github.com/nordkaliber/checkout/internal/models"
	"github.com/nordkaliber/checkout/internal/security"
)

// DefaultMaxAmountMinor caps a single order at 500 SEK in minor units.
// This is a server-side fraud guard independent of client-supplied totals.
const DefaultMaxAmountMinor = 50000

// PaymentService handles payment-related business logic
type PaymentService interface {
	CreateIntent(ctx context.Context, req *CreateIntentRequest) (*CreateIntentResult, error)
	RetrieveIntent(ctx context.Context, id string, testMode bool) (*PaymentDetails, error)
}

// CreateIntentRequest is a validated-and-sanitized-on-entry checkout request.
type CreateIntentRequest struct {
	Items           []models.CartItem
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	ClientIP        string
	TestMode        bool
}

// CreateIntentResult represents the result of creating a payment intent
type CreateIntentResult struct {
	ClientSecret    string
	PaymentIntentID string
	Mode            string
	IsTestMode      bool
}

// PaymentDetails represents a normalized view of a retrieved payment intent
type PaymentDetails struct {
	ID            string
	AmountMinor   int64
	AmountMajor   float64
	Currency      string
	Status        string
	CustomerEmail string
	Description   string
	Metadata      map[string]string
	Mode          string
	IsTestMode    bool
}

// Domain errors surfaced to the HTTP layer as client faults.
var (
	ErrAmountTooLarge = fmt.Errorf("payment amount exceeds maximum allowed")
)

// PaymentServiceImpl implements PaymentService
type PaymentServiceImpl struct {
	liveClient        StripeClient
	testClient        StripeClient
	currency          string
	maxAmountMinor    int64
	newIdempotencyKey func(clientIP string) string
}

// NewPaymentService creates a new payment service. Separate clients carry
// the live and test credentials; the request decides which one is used.
func NewPaymentService(liveClient, testClient StripeClient) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		liveClient:        liveClient,
		testClient:        testClient,
		currency:          "sek",
		maxAmountMinor:    DefaultMaxAmountMinor,
		newIdempotencyKey: generateIdempotencyKey,
	}
}

// CreateIntent validates the cart, computes the total and creates a payment
// intent carrying the order metadata.
func (s *PaymentServiceImpl) CreateIntent(ctx context.Context, req *CreateIntentRequest) (*CreateIntentResult, error) {
	email := security.Sanitize(req.CustomerEmail)
	name := security.Sanitize(req.CustomerName)
	phone := security.Sanitize(req.CustomerPhone)
	address := security.Sanitize(req.CustomerAddress)

	if !models.ValidEmail(email) {
		return nil, models.ErrInvalidEmail
	}
	if len(req.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	totalMajor := models.CartTotal(req.Items)
	totalMinor := models.MinorUnits(totalMajor)

	if totalMinor > s.maxAmountMinor {
		log.Printf("Rejected payment of %d minor units, cap is %d", totalMinor, s.maxAmountMinor)
		return nil, ErrAmountTooLarge
	}

	idempotencyKey := s.newIdempotencyKey(req.ClientIP)

	metadata := models.BuildMetadata(models.MetadataInput{
		Items:           req.Items,
		CustomerEmail:   email,
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerAddress: address,
		TotalMajor:      totalMajor,
		TestMode:        req.TestMode,
		ClientIP:        req.ClientIP,
		IdempotencyKey:  idempotencyKey,
	})

	mode := config.ModeLabel(req.TestMode)
	log.Printf("Creating payment intent: mode=%s total=%.2f minor=%d items=%d",
		mode, totalMajor, totalMinor, len(req.Items))

	intent, err := s.clientFor(req.TestMode).CreatePaymentIntent(ctx, &IntentRequest{
		AmountMinor:    totalMinor,
		Currency:       s.currency,
		ReceiptEmail:   email,
		Description:    fmt.Sprintf("Nordkaliber order - %d item(s)", len(req.Items)),
		Metadata:       metadata,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &CreateIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Mode:            mode,
		IsTestMode:      req.TestMode,
	}, nil
}

// RetrieveIntent fetches a payment intent and normalizes its fields.
func (s *PaymentServiceImpl) RetrieveIntent(ctx context.Context, id string, testMode bool) (*PaymentDetails, error) {
	intent, err := s.clientFor(testMode).GetPaymentIntent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return &PaymentDetails{
		ID:            intent.ID,
		AmountMinor:   intent.Amount,
		AmountMajor:   models.MajorUnits(intent.Amount),
		Currency:      string(intent.Currency),
		Status:        string(intent.Status),
		CustomerEmail: intent.ReceiptEmail,
		Description:   intent.Description,
		Metadata:      intent.Metadata,
		Mode:          config.ModeLabel(testMode),
		IsTestMode:    testMode,
	}, nil
}

func (s *PaymentServiceImpl) clientFor(testMode bool) StripeClient {
	if testMode {
		return s.testClient
	}
	return s.liveClient
}

// generateIdempotencyKey derives a key from the client address, the current
// time and a random suffix so a network-level retry reuses the same key
// while distinct checkouts never collide.
func generateIdempotencyKey(clientIP string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%d_%s", clientIP, time.Now().UnixMilli(), suffix)
}
