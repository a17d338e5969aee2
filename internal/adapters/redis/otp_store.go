package redis

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/smartpdf/ui-api/internal/domain/auth"
)

// ErrOTPMismatch is returned when the presented code does not match the stored one.
var ErrOTPMismatch = errors.New("otp mismatch")

// OTPStore issues and verifies short-lived numeric codes in Redis.
// Codes are single-use: a successful verify consumes the key atomically.
type OTPStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// OTPStoreOptions groups parameters for NewOTPStore.
type OTPStoreOptions struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

// NewOTPStore creates a Redis-backed OTP store.
func NewOTPStore(opts OTPStoreOptions) *OTPStore {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPStore{
		client: opts.Client,
		prefix: "otp:",
		ttl:    ttl,
	}
}

func (s *OTPStore) key(purpose domainauth.OTPPurpose, email string) string {
	return s.prefix + string(purpose) + ":" + email
}

// Issue generates a fresh code for the email and purpose, replacing any
// outstanding one, and stores it with the configured TTL.
func (s *OTPStore) Issue(ctx context.Context, purpose domainauth.OTPPurpose, email string) (string, error) {
	if email == "" {
		return "", errors.New("email cannot be empty")
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	if err := s.client.Set(ctx, s.key(purpose, email), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Check compares the presented code without consuming it. Used by flows
// that confirm the code in one request and act on it in a later one.
func (s *OTPStore) Check(ctx context.Context, purpose domainauth.OTPPurpose, email, code string) error {
	if email == "" || code == "" {
		return ErrOTPMismatch
	}
	stored, err := s.client.Get(ctx, s.key(purpose, email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPMismatch
		}
		return fmt.Errorf("redis get: %w", err)
	}
	if stored != code {
		return ErrOTPMismatch
	}
	return nil
}

// Verify checks the presented code and consumes it on success. A wrong
// code leaves the stored one intact until its TTL runs out.
func (s *OTPStore) Verify(ctx context.Context, purpose domainauth.OTPPurpose, email, code string) error {
	if email == "" || code == "" {
		return ErrOTPMismatch
	}

	key := s.key(purpose, email)
	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPMismatch
		}
		return fmt.Errorf("redis get: %w", err)
	}
	if stored != code {
		return ErrOTPMismatch
	}

	// Consume only if the value is still the one we matched; GETDEL would
	// also delete a code reissued between Get and the delete.
	const consumeScript = `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		end
		return 0`
	deleted, err := s.client.Eval(ctx, consumeScript, []string{key}, code).Int()
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if deleted == 0 {
		return ErrOTPMismatch
	}
	return nil
}

// Delete discards any outstanding code for the email and purpose.
func (s *OTPStore) Delete(ctx context.Context, purpose domainauth.OTPPurpose, email string) error {
	if email == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(purpose, email)).Err()
}

// generateCode produces a zero-padded numeric code of domainauth.OTPLength digits.
func generateCode() (string, error) {
	maxExclusive := big.NewInt(1)
	for i := 0; i < domainauth.OTPLength; i++ {
		maxExclusive.Mul(maxExclusive, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, maxExclusive)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", domainauth.OTPLength, n), nil
}
