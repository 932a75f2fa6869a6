package config

import (
	"fmt"
	"os"
)

// StripeConfig holds configuration for the Stripe integration
type StripeConfig struct {
	SecretKey      string
	TestSecretKey  string
	PublishableKey string
	WebhookSecret  string
	Mode           string
}

// LoadStripeConfig loads Stripe configuration from environment variables
func LoadStripeConfig() (*StripeConfig, error) {
	config := StripeConfig{
		SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		TestSecretKey:  os.Getenv("STRIPE_SECRET_KEY_TEST"),
		PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Mode:           os.Getenv("STRIPE_MODE"),
	}

	// Validate required fields
	if config.SecretKey == "" && config.TestSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY or STRIPE_SECRET_KEY_TEST is required")
	}
	if config.Mode == "" {
		config.Mode = "live" // Default to live mode
	}

	return &config, nil
}

// IsTestMode reports whether a request should use test credentials,
// either through the per-request flag or the global mode switch.
func (c *StripeConfig) IsTestMode(requestFlag bool) bool {
	return requestFlag || c.Mode == "test"
}

// SecretKeyFor returns the secret key matching the requested mode.
func (c *StripeConfig) SecretKeyFor(testMode bool) string {
	if testMode {
		return c.TestSecretKey
	}
	return c.SecretKey
}

// ModeLabel returns the human-readable mode tag used in API responses.
func ModeLabel(testMode bool) string {
	if testMode {
		return "test"
	}
	return "live"
}
