package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is the access/refresh pair handed to clients on login or activation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims carried inside issued tokens beyond the registered set.
type Claims struct {
	UserID    int64  `json:"uid"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	SessionID string `json:"sid"`
	TokenUse  string `json:"use"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenManagerOptions groups dependencies for TokenManager.
type TokenManagerOptions struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenManager issues and verifies HS256-signed access and refresh tokens.
// The session ID travels in the sid claim so server-side revocation works
// independent of token expiry.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var (
	// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenUse is returned when a refresh token is presented as an
	// access token or vice versa.
	ErrWrongTokenUse = errors.New("wrong token use")
)

// NewTokenManager constructs a TokenManager.
func NewTokenManager(opts TokenManagerOptions) (*TokenManager, error) {
	if opts.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if opts.AccessTTL <= 0 || opts.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &TokenManager{
		secret:     []byte(opts.Secret),
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
	}, nil
}

// Issue creates an access/refresh pair bound to the given session.
func (m *TokenManager) Issue(s Session) (TokenPair, error) {
	access, err := m.sign(s, "access", m.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(s, "refresh", m.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) sign(s Session, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role,
		SessionID: s.ID,
		TokenUse:  use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", s.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        s.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyAccess validates an access token and returns its claims.
func (m *TokenManager) VerifyAccess(token string) (*Claims, error) {
	return m.verify(token, "access")
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *TokenManager) VerifyRefresh(token string) (*Claims, error) {
	return m.verify(token, "refresh")
}

func (m *TokenManager) verify(token, use string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.TokenUse != use {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
