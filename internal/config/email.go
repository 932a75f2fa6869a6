package config

import (
	"os"
	"strconv"
)

// EmailConfig holds configuration for outbound transactional email
type EmailConfig struct {
	SMTPHost               string
	SMTPPort               int
	Username               string
	Password               string
	FromAddress            string
	ProductionManagerEmail string
}

// LoadEmailConfig loads email configuration from environment variables.
// Missing credentials are not an error here; sends will fail and be
// reported through the notification result instead.
func LoadEmailConfig() EmailConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}

	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	user := os.Getenv("EMAIL_USER")

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = user
	}

	manager := os.Getenv("PRODUCTION_MANAGER_EMAIL")
	if manager == "" {
		manager = user
	}

	return EmailConfig{
		SMTPHost:               host,
		SMTPPort:               port,
		Username:               user,
		Password:               os.Getenv("EMAIL_PASSWORD"),
		FromAddress:            from,
		ProductionManagerEmail: manager,
	}
}
