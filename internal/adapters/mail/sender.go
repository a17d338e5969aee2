package mail

// Package mail delivers one-time codes and account notices over SMTP.
// A log-only sender stands in during development so flows stay testable
// without a relay.

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SMTPSenderOptions groups parameters for NewSMTPSender.
type SMTPSenderOptions struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPSender sends mail through a configured relay.
type SMTPSender struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

// NewSMTPSender constructs an SMTPSender.
func NewSMTPSender(opts SMTPSenderOptions) *SMTPSender {
	var auth smtp.Auth
	if opts.Username != "" {
		auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}
	return &SMTPSender{
		addr: net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		host: opts.Host,
		from: opts.From,
		auth: auth,
	}
}

// Send delivers the message. The context is honored up front only;
// net/smtp does not support mid-session cancellation.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes would-be mail to the log instead of a relay.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) logger() *slog.Logger {
	if s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Send logs the message instead of delivering it.
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger().InfoContext(ctx, "mail suppressed (log sender)",
		"to", to, "subject", subject, "body", body)
	return nil
}
