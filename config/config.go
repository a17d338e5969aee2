package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication, token, and OTP configuration
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - convert.go: Document conversion service configuration
//   - mail.go: Outbound mail configuration
type AppConfig struct {
	// IsDev controls development mode behavior (relaxed secret checks, log mail sender).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig `envPrefix:"AUTH_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Document conversion service configuration
	Convert ConvertConfig `envPrefix:"CONVERT_"`

	// Outbound mail configuration
	Mail MailConfig `envPrefix:"MAIL_"`

	// Janitor configuration (stale pending-account cleanup)
	Janitor JanitorConfig `envPrefix:"JANITOR_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.HTTP.Sanitize()
	c.Auth.Sanitize(c.IsDev)
	c.Convert.Sanitize(c.IsDev)
	c.Mail.Sanitize()
	c.Janitor.Sanitize()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
