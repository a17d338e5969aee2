package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartpdf/ui-api/internal/data"
	"github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
)

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(auth.TokenManagerOptions{
		Secret:     "test-secret",
		Issuer:     "smartpdf",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)
	return tm
}

func newTestAuthService(t *testing.T, users *mockUserRepo, sessions *mockSessionStore, codes *mockOTPStore, sender *mockMailSender) *AuthService {
	t.Helper()
	return NewAuthService(AuthServiceOptions{
		Users: users,
		Deps: AuthDeps{
			Sessions: sessions,
			Codes:    codes,
			Tokens:   testTokenManager(t),
			Mail:     sender,
		},
		Config: AuthConfig{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost},
	})
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates inactive user and mails a code", func(t *testing.T) {
		var created model.CreateUserParams
		users := &mockUserRepo{
			createFn: func(_ context.Context, p model.CreateUserParams) (*model.User, error) {
				created = p
				return &model.User{ID: 1, Email: p.Email, Role: p.Role}, nil
			},
		}
		sender := &mockMailSender{}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, sender)

		u, err := svc.Register(context.Background(), model.CreateUserRequest{
			Email:    "new@example.com",
			Password: "longenough",
			Role:     "user",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)

		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("longenough")),
			"stored hash must match the password")
		assert.Equal(t, []string{"new@example.com"}, sender.sent)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, &mockOTPStore{}, nil)

		_, err := svc.Register(context.Background(), model.CreateUserRequest{Email: "a@b.com"})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "Please fill in all fields")
	})

	t.Run("short password", func(t *testing.T) {
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, &mockOTPStore{}, nil)

		_, err := svc.Register(context.Background(), model.CreateUserRequest{
			Email:    "a@b.com",
			Password: "short",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Password must be at least 8 characters")
	})

	t.Run("duplicate email surfaces as a conflict", func(t *testing.T) {
		users := &mockUserRepo{
			createFn: func(context.Context, model.CreateUserParams) (*model.User, error) {
				return nil, data.ErrEmailExists
			},
		}
		sender := &mockMailSender{}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, sender)

		_, err := svc.Register(context.Background(), model.CreateUserRequest{
			Email:    "dup@b.com",
			Password: "longenough",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Empty(t, sender.sent, "no activation mail for a refused registration")
	})
}

func TestAuthService_IssueResetOTP(t *testing.T) {
	t.Run("unknown address succeeds silently", func(t *testing.T) {
		users := &mockUserRepo{
			getByEmailFn: func(context.Context, string) (*model.User, error) {
				return nil, data.ErrUserNotFound
			},
		}
		sender := &mockMailSender{}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, sender)

		assert.NoError(t, svc.IssueResetOTP(context.Background(), "nobody@b.com"))
		assert.Empty(t, sender.sent)
	})

	t.Run("known address gets a code", func(t *testing.T) {
		users := &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{ID: 2, Email: email, Active: true}, nil
			},
		}
		sender := &mockMailSender{}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, sender)

		require.NoError(t, svc.IssueResetOTP(context.Background(), "a@b.com"))
		assert.Equal(t, []string{"a@b.com"}, sender.sent)
	})
}

func TestAuthService_Activate(t *testing.T) {
	t.Run("three digit code rejected before store lookup", func(t *testing.T) {
		codes := &mockOTPStore{
			verifyFn: func(context.Context, auth.OTPPurpose, string, string) error {
				t.Fatal("store must not be consulted for malformed codes")
				return nil
			},
		}
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, codes, nil)

		_, err := svc.Activate(context.Background(), "a@b.com", "123")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "Please enter a 4-digit code")
	})

	t.Run("wrong code", func(t *testing.T) {
		codes := &mockOTPStore{
			verifyFn: func(context.Context, auth.OTPPurpose, string, string) error {
				return assert.AnError
			},
		}
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, codes, nil)

		_, err := svc.Activate(context.Background(), "a@b.com", "1234")
		assert.ErrorIs(t, err, ErrOTPRejected)
	})

	t.Run("activates and logs in", func(t *testing.T) {
		activated := false
		users := &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{ID: 7, Email: email, Role: auth.RoleUser, Active: false}, nil
			},
			activateFn: func(_ context.Context, id int64) error {
				assert.Equal(t, int64(7), id)
				activated = true
				return nil
			},
		}
		var saved auth.Session
		sessions := &mockSessionStore{
			saveFn: func(_ context.Context, sess auth.Session) error {
				saved = sess
				return nil
			},
		}
		codes := &mockOTPStore{
			verifyFn: func(_ context.Context, purpose auth.OTPPurpose, email, code string) error {
				assert.Equal(t, auth.OTPPurposeActivate, purpose)
				assert.Equal(t, "a@b.com", email)
				assert.Equal(t, "1234", code)
				return nil
			},
		}
		svc := newTestAuthService(t, users, sessions, codes, nil)

		res, err := svc.Activate(context.Background(), "a@b.com", "1234")
		require.NoError(t, err)
		assert.True(t, activated)
		assert.True(t, res.User.Active)
		assert.NotEmpty(t, res.Tokens.AccessToken)
		assert.Equal(t, int64(7), saved.UserID)
	})
}

func TestAuthService_Login(t *testing.T) {
	activeUser := func(password string) *mockUserRepo {
		return &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{
					ID:           3,
					Email:        email,
					Role:         auth.RoleUser,
					Active:       true,
					PasswordHash: hashPassword(t, password),
				}, nil
			},
		}
	}

	t.Run("success issues tokens bound to a saved session", func(t *testing.T) {
		var saved auth.Session
		sessions := &mockSessionStore{
			saveFn: func(_ context.Context, sess auth.Session) error {
				saved = sess
				return nil
			},
		}
		svc := newTestAuthService(t, activeUser("correct-horse"), sessions, &mockOTPStore{}, nil)

		res, err := svc.Login(context.Background(), "a@b.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, res.User.Role)
		assert.NotEmpty(t, res.Tokens.AccessToken)
		assert.NotEmpty(t, res.Tokens.RefreshToken)
		assert.Equal(t, int64(3), saved.UserID)
		assert.Equal(t, auth.RoleUser, saved.Role)
	})

	t.Run("unknown email and wrong password read identically", func(t *testing.T) {
		unknown := &mockUserRepo{
			getByEmailFn: func(context.Context, string) (*model.User, error) {
				return nil, data.ErrUserNotFound
			},
		}
		svcUnknown := newTestAuthService(t, unknown, &mockSessionStore{}, &mockOTPStore{}, nil)
		svcWrongPw := newTestAuthService(t, activeUser("correct-horse"), &mockSessionStore{}, &mockOTPStore{}, nil)

		_, errUnknown := svcUnknown.Login(context.Background(), "nobody@b.com", "whatever1")
		_, errWrongPw := svcWrongPw.Login(context.Background(), "a@b.com", "not-the-password")
		require.Error(t, errUnknown)
		require.Error(t, errWrongPw)
		assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
		assert.True(t, apperrors.IsUnauthorized(errUnknown))
	})

	t.Run("inactive account is forbidden with activation hint", func(t *testing.T) {
		users := &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{
					ID:           4,
					Email:        email,
					Active:       false,
					PasswordHash: hashPassword(t, "correct-horse"),
				}, nil
			},
		}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, nil)

		_, err := svc.Login(context.Background(), "a@b.com", "correct-horse")
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		assert.Contains(t, err.Error(), "not activated")
	})

	t.Run("empty fields", func(t *testing.T) {
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, &mockOTPStore{}, nil)

		_, err := svc.Login(context.Background(), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Please fill in all fields")
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("short password rejected before code consumption", func(t *testing.T) {
		codes := &mockOTPStore{
			verifyFn: func(context.Context, auth.OTPPurpose, string, string) error {
				t.Fatal("code must not be consumed when the password is invalid")
				return nil
			},
		}
		svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, codes, nil)

		err := svc.ResetPassword(context.Background(), "a@b.com", "1234", "short")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Password must be at least 8 characters")
	})

	t.Run("updates the hash", func(t *testing.T) {
		var newHash string
		users := &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{ID: 9, Email: email}, nil
			},
			updatePasswordFn: func(_ context.Context, id int64, hash string) error {
				assert.Equal(t, int64(9), id)
				newHash = hash
				return nil
			},
		}
		codes := &mockOTPStore{
			verifyFn: func(_ context.Context, purpose auth.OTPPurpose, _, _ string) error {
				assert.Equal(t, auth.OTPPurposeReset, purpose)
				return nil
			},
		}
		svc := newTestAuthService(t, users, &mockSessionStore{}, codes, nil)

		require.NoError(t, svc.ResetPassword(context.Background(), "a@b.com", "1234", "new-password"))
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-password")))
	})
}

func TestAuthService_VerifyResetOTP(t *testing.T) {
	checked := false
	codes := &mockOTPStore{
		checkFn: func(_ context.Context, purpose auth.OTPPurpose, email, code string) error {
			checked = true
			assert.Equal(t, auth.OTPPurposeReset, purpose)
			return nil
		},
	}
	svc := newTestAuthService(t, &mockUserRepo{}, &mockSessionStore{}, codes, nil)

	require.NoError(t, svc.VerifyResetOTP(context.Background(), "a@b.com", "1234"))
	assert.True(t, checked, "verification peeks at the code without consuming it")
}

func TestAuthService_ChangePassword(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHash: hashPassword(t, "current-pw")}, nil
		},
		updatePasswordFn: func(context.Context, int64, string) error { return nil },
	}
	svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, nil)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 5, "not-current", "new-password")
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, svc.ChangePassword(context.Background(), 5, "current-pw", "new-password"))
	})
}

func TestAuthService_ResendOTP(t *testing.T) {
	t.Run("unknown address succeeds silently", func(t *testing.T) {
		users := &mockUserRepo{
			getByEmailFn: func(context.Context, string) (*model.User, error) {
				return nil, data.ErrUserNotFound
			},
		}
		sender := &mockMailSender{}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, sender)

		assert.NoError(t, svc.ResendOTP(context.Background(), "nobody@b.com"))
		assert.Empty(t, sender.sent)
	})

	t.Run("already active account conflicts", func(t *testing.T) {
		users := &mockUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*model.User, error) {
				return &model.User{ID: 1, Email: email, Active: true}, nil
			},
		}
		svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, nil)

		err := svc.ResendOTP(context.Background(), "a@b.com")
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestAuthService_PurgeStalePending(t *testing.T) {
	var gotCutoff time.Time
	users := &mockUserRepo{
		deleteStalePendingFn: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 2, nil
		},
	}
	svc := newTestAuthService(t, users, &mockSessionStore{}, &mockOTPStore{}, nil)

	purged, err := svc.PurgeStalePending(context.Background(), 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
	assert.WithinDuration(t, time.Now().UTC().Add(-72*time.Hour), gotCutoff, time.Minute)
}
