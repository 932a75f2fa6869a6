package config

import "os"

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port          string
	AllowedOrigin string
	Environment   string
	CSRFSecret    string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig() ServerConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	origin := os.Getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	csrfSecret := os.Getenv("CSRF_SECRET")
	if csrfSecret == "" {
		csrfSecret = "default-csrf-secret"
	}

	return ServerConfig{
		Port:          port,
		AllowedOrigin: origin,
		Environment:   env,
		CSRFSecret:    csrfSecret,
	}
}

// IsProduction reports whether the server runs in production mode.
// Error responses hide upstream detail when this is true.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}
