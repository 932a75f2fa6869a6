package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	internalcli "github.com/nordkaliber/checkout/internal/cli"
	"github.com/nordkaliber/checkout/internal/config"
	"github.com/nordkaliber/checkout/internal/database"
	"github.com/nordkaliber/checkout/internal/handlers"
	"github.com/nordkaliber/checkout/internal/ratelimit"
	"github.com/nordkaliber/checkout/internal/repository"
	"github.com/nordkaliber/checkout/internal/security"
	"github.com/nordkaliber/checkout/internal/services"
)

var version = "0.1.0"

// buildServerDependencies creates all dependencies needed for the server
func buildServerDependencies(ledger services.EventLedger) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	// Load server configuration
	deps.ServerConfig = config.LoadServerConfig()

	// Load Stripe configuration
	stripeConfig, err := config.LoadStripeConfig()
	if err != nil {
		return deps, fmt.Errorf("missing required Stripe configuration: %w", err)
	}

	// Rate limiter: Redis-backed when an address is configured so limits
	// survive restarts and cover multiple instances, in-memory otherwise
	rateLimitConfig := config.LoadRateLimitConfig()
	var limiter ratelimit.Limiter
	if rateLimitConfig.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: rateLimitConfig.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(client, rateLimitConfig.Window, rateLimitConfig.MaxAttempts)
		log.Printf("Rate limiting backed by Redis at %s", rateLimitConfig.RedisAddr)
	} else {
		limiter = ratelimit.NewMemoryLimiter(rateLimitConfig.Window, rateLimitConfig.MaxAttempts)
	}

	// Create service layer
	liveClient := services.NewStripeClient(stripeConfig.SecretKey)
	testClient := services.NewStripeClient(stripeConfig.TestSecretKey)
	paymentService := services.NewPaymentService(liveClient, testClient)

	emailConfig := config.LoadEmailConfig()
	mailer := services.NewSMTPMailer(emailConfig)
	notificationService := services.NewNotificationDispatcher(mailer, emailConfig.ProductionManagerEmail)

	webhookService := services.NewWebhookProcessor(stripeConfig.WebhookSecret, ledger, notificationService)

	csrf := security.NewCSRFValidator(deps.ServerConfig.CSRFSecret)

	// Create handlers
	deps.PaymentIntentHandler = handlers.NewPaymentIntentHandler(paymentService, limiter, csrf, stripeConfig, deps.ServerConfig)
	deps.PaymentDetailsHandler = handlers.NewPaymentDetailsHandler(paymentService, stripeConfig, deps.ServerConfig)
	deps.WebhookHandler = handlers.NewWebhookHandler(webhookService)
	deps.OrderCompleteHandler = handlers.NewOrderCompleteHandler(notificationService)
	deps.StripeConfigHandler = handlers.NewStripeConfigHandler(stripeConfig)
	deps.HealthHandler = handlers.NewHealthHandler(deps.ServerConfig)

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the checkout API server",
		Action: func(c *cli.Context) error {
			// The webhook dedup ledger needs Postgres; without it
			// redelivered events dispatch duplicate emails
			var ledger services.EventLedger
			if config.PostgresConfigured(os.Getenv) {
				if err := database.Connect(); err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer database.Close()
				log.Println("Connected to database successfully")

				if err := database.RunMigrations(); err != nil {
					return fmt.Errorf("failed to run database migrations: %w", err)
				}

				ledger = repository.NewEventRepository()
			} else {
				log.Println("Postgres not configured, webhook deduplication disabled")
			}

			// Build all server dependencies
			deps, err := buildServerDependencies(ledger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "checkout",
		Usage:   "Nordkaliber checkout API management tool",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}
