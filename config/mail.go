package config

// MailConfig contains outbound mail configuration for OTP delivery.
type MailConfig struct {
	// Enabled selects the SMTP sender; when false a log-only sender is used.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// Host and Port locate the SMTP relay.
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"587"`

	// From is the sender address on outbound mail.
	From string `env:"FROM" envDefault:"no-reply@smartpdf.local"`

	// Username and Password authenticate against the relay (optional).
	Username string `env:"USERNAME" envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`
}

// Sanitize applies guardrails to mail configuration values.
func (m *MailConfig) Sanitize() {
	if m.Port <= 0 || m.Port > 65535 {
		m.Port = 587
	}
	if m.From == "" {
		m.From = "no-reply@smartpdf.local"
	}
}
