package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/smartpdf/ui-api/config"
	"github.com/smartpdf/ui-api/internal/service"
)

// JanitorDeps groups what the janitor runner needs.
type JanitorDeps struct {
	Config config.JanitorConfig
	Auth   *service.AuthService
	Logger *slog.Logger
}

// RunJanitor periodically purges registrations that never activated.
// It returns when the context is canceled.
func RunJanitor(ctx context.Context, deps JanitorDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("janitor started",
		"interval", deps.Config.Interval,
		"max_pending_age", deps.Config.MaxPendingAge)

	ticker := time.NewTicker(deps.Config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("janitor stopped")
			return
		case <-ticker.C:
			if _, err := deps.Auth.PurgeStalePending(ctx, deps.Config.MaxPendingAge); err != nil {
				logger.ErrorContext(ctx, "janitor purge failed", "error", err)
			}
		}
	}
}
