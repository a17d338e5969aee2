package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/smartpdf/ui-api/config"
	httpx "github.com/smartpdf/ui-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer builds the router and returns a configured server.
// The caller starts it and owns its shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:          cfg.Services.Auth,
		Users:         cfg.Services.Users,
		Notifications: cfg.Services.Notifications,
		Templates:     cfg.Services.Templates,
		Export:        cfg.Services.Export,
		Tokens:        cfg.Services.Tokens,
		Sessions:      cfg.Services.Sessions,
		CookieDomain:  appCfg.HTTP.CookieDomain,
		Logger:        logger,
	})

	// Recover outermost, then logging, then compression.
	h := router
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel})(h)
	}
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	logger.Info("HTTP server configured", "addr", addr)
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  appCfg.HTTP.IdleTimeout,
	}
}
