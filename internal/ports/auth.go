// Package ports defines the interfaces the service layer depends on.
// Adapters (Redis, Postgres, SMTP, the conversion API) implement them;
// services consume them without importing the implementations.
package ports

import (
	"context"

	"github.com/smartpdf/ui-api/internal/domain/auth"
)

// SessionStore persists authenticated sessions.
type SessionStore interface {
	Save(ctx context.Context, sess auth.Session) error
	Get(ctx context.Context, id string) (auth.Session, error)
	Delete(ctx context.Context, id string) error
}

// OTPStore issues and verifies single-use numeric codes scoped to a
// purpose and email address. Verify consumes the code; Check only
// compares it.
type OTPStore interface {
	Issue(ctx context.Context, purpose auth.OTPPurpose, email string) (string, error)
	Check(ctx context.Context, purpose auth.OTPPurpose, email, code string) error
	Verify(ctx context.Context, purpose auth.OTPPurpose, email, code string) error
	Delete(ctx context.Context, purpose auth.OTPPurpose, email string) error
}

// MailSender delivers a plain-text message to a single recipient.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
