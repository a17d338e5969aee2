package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/ports"
)

// ErrOTPRejected is the uniform answer for wrong, expired, or missing codes.
var ErrOTPRejected = apperrors.Unauthorized("Invalid or expired code")

// errBadCredentials never distinguishes a wrong email from a wrong password.
var errBadCredentials = apperrors.Unauthorized("Invalid email or password")

// AuthDeps groups the stores and senders AuthService orchestrates.
type AuthDeps struct {
	Sessions ports.SessionStore
	Codes    ports.OTPStore
	Tokens   *auth.TokenManager
	Mail     ports.MailSender
	Logger   *slog.Logger
}

// AuthConfig groups the tunables of the authentication flows.
type AuthConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users  ports.UserRepository
	Deps   AuthDeps
	Config AuthConfig
}

// AuthService implements registration, OTP activation, login, password
// reset, and profile management.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	codes      ports.OTPStore
	tokens     *auth.TokenManager
	mail       ports.MailSender
	logger     *slog.Logger
	sessionTTL time.Duration
	bcryptCost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Deps.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Deps.Codes == nil {
		panic("OTPStore is required")
	}
	if opts.Deps.Tokens == nil {
		panic("TokenManager is required")
	}

	sessionTTL := opts.Config.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	bcryptCost := opts.Config.BcryptCost
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Deps.Sessions,
		codes:      opts.Deps.Codes,
		tokens:     opts.Deps.Tokens,
		mail:       opts.Deps.Mail,
		logger:     opts.Deps.Logger,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// LoginResult carries the authenticated user together with the issued
// token pair.
type LoginResult struct {
	User    *model.User    `json:"user"`
	Tokens  auth.TokenPair `json:"tokens"`
	Session auth.Session   `json:"-"`
}

// Register creates an inactive account and mails an activation code.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.CreateUserParams{
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         auth.ParseRole(req.Role),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendCode(ctx, auth.OTPPurposeActivate, user.Email, "Activate your account")
	return user, nil
}

// Activate verifies the activation code, marks the account active, and
// logs the user in.
func (s *AuthService) Activate(ctx context.Context, email, code string) (*LoginResult, error) {
	if err := auth.ValidateOTPFormat(code); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if err := s.codes.Verify(ctx, auth.OTPPurposeActivate, normalizeEmail(email), code); err != nil {
		return nil, ErrOTPRejected
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.Active {
		if err := s.users.Activate(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("activate user: %w", err)
		}
		user.Active = true
	}

	return s.openSession(ctx, user)
}

// ResendOTP issues a fresh activation code for a pending account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.Active {
		return apperrors.Conflict("account is already activated")
	}

	s.sendCode(ctx, auth.OTPPurposeActivate, user.Email, "Activate your account")
	return nil
}

// IssueResetOTP mails a password-reset code. Unknown addresses succeed
// silently so the endpoint cannot be used to probe for accounts.
func (s *AuthService) IssueResetOTP(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	s.sendCode(ctx, auth.OTPPurposeReset, user.Email, "Reset your password")
	return nil
}

// VerifyResetOTP confirms a reset code without consuming it, so the
// reset form can advance before the new password is chosen.
func (s *AuthService) VerifyResetOTP(ctx context.Context, email, code string) error {
	if err := auth.ValidateOTPFormat(code); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := s.codes.Check(ctx, auth.OTPPurposeReset, normalizeEmail(email), code); err != nil {
		return ErrOTPRejected
	}
	return nil
}

// ResetPassword consumes the reset code and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := auth.ValidateOTPFormat(code); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		return apperrors.Validation(err.Error())
	}

	if err := s.codes.Verify(ctx, auth.OTPPurposeReset, normalizeEmail(email), code); err != nil {
		return ErrOTPRejected
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	if strings.TrimSpace(current) == "" || strings.TrimSpace(newPassword) == "" {
		return apperrors.Validation("Please fill in all fields")
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		return apperrors.Validation(err.Error())
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperrors.Unauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Login checks credentials and opens a session. The error never says
// which part of the credentials was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.Validation("Please fill in all fields")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	if !user.Active {
		return nil, apperrors.Forbidden("Account is not activated. Please verify the code sent to your email.")
	}

	return s.openSession(ctx, user)
}

// Logout deletes the server-side session, invalidating outstanding
// tokens bound to it.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetProfile returns the account of the authenticated user.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the mutable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// PurgeStalePending deletes never-activated registrations older than maxAge.
func (s *AuthService) PurgeStalePending(ctx context.Context, maxAge time.Duration) (int64, error) {
	purged, err := s.users.DeleteStalePending(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("purge stale registrations: %w", err)
	}
	if purged > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "purged stale pending registrations", "count", purged)
	}
	return purged, nil
}

// openSession creates the redis session and issues the token pair.
func (s *AuthService) openSession(ctx context.Context, user *model.User) (*LoginResult, error) {
	sess := auth.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	tokens, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &LoginResult{User: user, Tokens: tokens, Session: sess}, nil
}

// sendCode issues an OTP and mails it. Delivery failures are logged,
// not surfaced; the code can be re-requested.
func (s *AuthService) sendCode(ctx context.Context, purpose auth.OTPPurpose, email, subject string) {
	code, err := s.codes.Issue(ctx, purpose, normalizeEmail(email))
	if err != nil {
		s.logError(ctx, "issue otp", err, email)
		return
	}
	if s.mail == nil {
		return
	}
	body := fmt.Sprintf("Your verification code is %s. It expires shortly.", code)
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		s.logError(ctx, "send otp mail", err, email)
	}
}

func (s *AuthService) logError(ctx context.Context, op string, err error, email string) {
	if s.logger == nil {
		return
	}
	s.logger.ErrorContext(ctx, op+" failed", "email", email, "error", err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
