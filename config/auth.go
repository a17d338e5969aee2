package config

import "time"

// AuthConfig groups authentication, token, and OTP configuration.
type AuthConfig struct {
	// JWTSecret signs access and refresh tokens (HS256).
	// Required in production; a dev-only fallback is applied when IsDev is set.
	JWTSecret string `env:"JWT_SECRET"`

	// JWTIssuer is the iss claim stamped on issued tokens.
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"smartpdf"`

	// AccessTTL is the lifetime of access tokens.
	AccessTTL time.Duration `env:"ACCESS_TTL" envDefault:"15m"`

	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"720h"`

	// SessionTTL bounds the server-side session independent of token expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// OTPTTL is how long an issued one-time code remains valid.
	OTPTTL time.Duration `env:"OTP_TTL" envDefault:"10m"`
}

const devJWTSecret = "dev-only-insecure-secret"

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize(isDev bool) {
	if a.JWTSecret == "" && isDev {
		a.JWTSecret = devJWTSecret
	}
	if a.AccessTTL <= 0 {
		a.AccessTTL = 15 * time.Minute
	}
	if a.RefreshTTL <= 0 {
		a.RefreshTTL = 720 * time.Hour
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
	// Clamp bcrypt cost to the library's supported range (4-31); below 10 is
	// too weak for stored credentials.
	if a.BcryptCost < 10 {
		a.BcryptCost = 10
	}
	if a.BcryptCost > 31 {
		a.BcryptCost = 31
	}
	if a.OTPTTL <= 0 {
		a.OTPTTL = 10 * time.Minute
	}
}
