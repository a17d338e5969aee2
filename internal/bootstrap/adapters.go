package bootstrap

import (
	"errors"
	"log/slog"

	"github.com/smartpdf/ui-api/config"
	"github.com/smartpdf/ui-api/internal/adapters/cloudconvert"
	"github.com/smartpdf/ui-api/internal/adapters/mail"
	"github.com/smartpdf/ui-api/internal/ports"
)

// buildMailSender selects the SMTP sender when mail is enabled, a
// log-only sender otherwise. OTP codes still land in the logs during
// development.
//
//nolint:ireturn // the caller only needs the port, not a concrete sender.
func buildMailSender(cfg *config.AppConfig, logger *slog.Logger) ports.MailSender {
	if !cfg.Mail.Enabled {
		if logger != nil {
			logger.Info("mail disabled, using log sender")
		}
		return &mail.LogSender{Logger: logger}
	}
	return mail.NewSMTPSender(mail.SMTPSenderOptions{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		From:     cfg.Mail.From,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	})
}

// buildConverter constructs the conversion API client. The credential
// stays server-side; config sanitization substitutes a placeholder in
// development, so an empty key here means a misconfigured production
// deployment.
//
//nolint:ireturn // the caller only needs the port, not a concrete client.
func buildConverter(cfg *config.AppConfig) (ports.Converter, error) {
	if cfg.Convert.APIKey == "" {
		return nil, errors.New("conversion API key is required (set CONVERT_API_KEY)")
	}
	return cloudconvert.NewClient(cloudconvert.ClientOptions{
		BaseURL:        cfg.Convert.BaseURL,
		APIKey:         cfg.Convert.APIKey,
		RequestTimeout: cfg.Convert.RequestTimeout,
	})
}
