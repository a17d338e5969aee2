package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/smartpdf/ui-api/config"
	redisadapter "github.com/smartpdf/ui-api/internal/adapters/redis"
	"github.com/smartpdf/ui-api/internal/data"
	domainauth "github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/ports"
	"github.com/smartpdf/ui-api/internal/service"
)

// ServiceDeps contains the shared infrastructure services are built on.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services plus the
// pieces the HTTP layer needs to authenticate requests.
type ServiceContainer struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Notifications *service.NotificationService
	Templates     *service.TemplateService
	Export        *service.ExportService
	Tokens        *domainauth.TokenManager
	Sessions      ports.SessionStore
}

// NewServices wires repositories, adapters, and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	cfg := deps.Config

	tokens, err := domainauth.NewTokenManager(domainauth.TokenManagerOptions{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.JWTIssuer,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create token manager: %w", err)
	}

	sessions := redisadapter.NewSessionStore(deps.RedisClient)
	codes := redisadapter.NewOTPStore(redisadapter.OTPStoreOptions{
		Client: deps.RedisClient,
		TTL:    cfg.Auth.OTPTTL,
	})
	mailSender := buildMailSender(cfg, deps.Logger)
	converter, err := buildConverter(cfg)
	if err != nil {
		return ServiceContainer{}, err
	}

	users := data.NewUserRepo(deps.DB)
	notifications := data.NewNotificationRepo(deps.DB)
	templates := data.NewTemplateRepo(deps.DB)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users: users,
		Deps: service.AuthDeps{
			Sessions: sessions,
			Codes:    codes,
			Tokens:   tokens,
			Mail:     mailSender,
			Logger:   deps.Logger,
		},
		Config: service.AuthConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			BcryptCost: cfg.Auth.BcryptCost,
		},
	})

	exportSvc := service.NewExportService(service.ExportServiceOptions{
		Deps: service.ExportDeps{
			Converter: converter,
			Templates: templates,
			Logger:    deps.Logger,
		},
		Config: service.ExportConfig{
			PollInterval: cfg.Convert.PollInterval,
			MaxAttempts:  cfg.Convert.MaxPollAttempts,
		},
	})

	return ServiceContainer{
		Auth: authSvc,
		Users: service.NewUserService(service.UserServiceOptions{
			Users:         users,
			Notifications: notifications,
			Logger:        deps.Logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Notifications: notifications,
		}),
		Templates: service.NewTemplateService(service.TemplateServiceOptions{
			Templates: templates,
			Logger:    deps.Logger,
		}),
		Export:   exportSvc,
		Tokens:   tokens,
		Sessions: sessions,
	}, nil
}

// Run starts the HTTP server and the janitor, then blocks until a
// shutdown signal arrives or a component fails.
func Run(deps *ServiceDeps, services ServiceContainer) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   deps.Config,
		Services: services,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if deps.Config.Janitor.Enabled {
		g.Go(func() error {
			RunJanitor(gctx, JanitorDeps{
				Config: deps.Config.Janitor,
				Auth:   services.Auth,
				Logger: logger,
			})
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("shutting down HTTP server")
		err := server.Shutdown(shutdownCtx)

		// Stop in-flight export pollers after the server stops taking requests.
		services.Export.Close()
		return err
	})

	return g.Wait()
}
