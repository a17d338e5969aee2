package config

import (
	"strings"
	"time"
)

// ConvertConfig contains configuration for the external document conversion service.
// The API key is held server-side only; it is never exposed to clients.
type ConvertConfig struct {
	// BaseURL is the conversion API root (v2).
	BaseURL string `env:"BASE_URL" envDefault:"https://api.cloudconvert.com/v2"`

	// APIKey is the bearer credential for the conversion API.
	// Required in production when exports are used.
	APIKey string `env:"API_KEY"`

	// PollInterval is the spacing between job status requests.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	// MaxPollAttempts bounds the number of status requests per job.
	// A job still running after the last attempt is reported as an error.
	MaxPollAttempts int `env:"MAX_POLL_ATTEMPTS" envDefault:"60"`

	// RequestTimeout bounds each individual HTTP request to the service.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// devAPIKey keeps local development bootable without a real conversion
// credential. Requests made with it fail upstream.
const devAPIKey = "dev-only-key"

// Sanitize applies guardrails to conversion configuration values. In
// development a missing API key is replaced with a placeholder; in
// production it stays empty and startup refuses it.
func (c *ConvertConfig) Sanitize(isDev bool) {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.MaxPollAttempts < 1 {
		c.MaxPollAttempts = 60
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.APIKey == "" && isDev {
		c.APIKey = devAPIKey
	}
}
