package config

import "time"

// JanitorConfig controls the background cleanup of stale pending registrations.
// Accounts that never activate are purged after MaxPendingAge.
type JanitorConfig struct {
	// Enabled toggles the janitor runner.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// Interval is how often the janitor scans for stale accounts.
	Interval time.Duration `env:"INTERVAL" envDefault:"1h"`

	// MaxPendingAge is how long an unactivated account may linger.
	MaxPendingAge time.Duration `env:"MAX_PENDING_AGE" envDefault:"72h"`
}

// Sanitize applies guardrails to janitor configuration values.
func (j *JanitorConfig) Sanitize() {
	if j.Interval < time.Minute {
		j.Interval = time.Minute
	}
	if j.MaxPendingAge < time.Hour {
		j.MaxPendingAge = time.Hour
	}
}
