package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/ports"
	"github.com/smartpdf/ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Notifications *service.NotificationService
	Templates     *service.TemplateService
	Export        *service.ExportService
	Tokens        *domainauth.TokenManager
	Sessions      ports.SessionStore
	CookieDomain  string
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authn := &Authenticator{
		Tokens:       services.Tokens,
		Sessions:     services.Sessions,
		CookieDomain: services.CookieDomain,
	}

	registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, Auth: authn}, authn)
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, authn)
	registerNotificationRoutes(mux, &NotificationHandlers{Svc: services.Notifications}, authn)
	registerTemplateRoutes(mux, &TemplateHandlers{Svc: services.Templates}, authn)
	registerExportRoutes(mux, &ExportHandlers{Svc: services.Export}, authn)
	registerPageRoutes(mux, authn)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, authn *Authenticator) {
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/accounts/activate", h.Activate)
	mux.HandleFunc("POST /api/accounts/resend-otp", h.ResendOTP)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/otp/create", h.CreateOTP)
	mux.HandleFunc("POST /api/otp/verify", h.VerifyOTP)
	mux.HandleFunc("POST /api/password-reset/confirm", h.ResetPassword)

	mux.Handle("POST /api/logout", authn.RequireAuth(http.HandlerFunc(h.Logout)))
	mux.Handle("POST /api/password-change", authn.RequireAuth(http.HandlerFunc(h.ChangePassword)))
	mux.Handle("GET /api/profile", authn.RequireAuth(http.HandlerFunc(h.GetProfile)))
	mux.Handle("PUT /api/profile", authn.RequireAuth(http.HandlerFunc(h.UpdateProfile)))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, authn *Authenticator) {
	admin := authn.RequireRole(domainauth.RoleAdmin)
	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.List)))
	mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/users/{id}/notify", admin(http.HandlerFunc(h.Notify)))
}

func registerNotificationRoutes(mux *http.ServeMux, h *NotificationHandlers, authn *Authenticator) {
	mux.Handle("GET /api/notifications", authn.RequireAuth(http.HandlerFunc(h.List)))
	mux.Handle("DELETE /api/notifications/{id}", authn.RequireAuth(http.HandlerFunc(h.Delete)))
}

func registerTemplateRoutes(mux *http.ServeMux, h *TemplateHandlers, authn *Authenticator) {
	mux.Handle("POST /api/generate-template", authn.RequireAuth(http.HandlerFunc(h.Generate)))
	mux.Handle("POST /api/save-template", authn.RequireAuth(http.HandlerFunc(h.Save)))
	mux.Handle("GET /api/get-template", authn.RequireAuth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/get-template/{id}", authn.RequireAuth(http.HandlerFunc(h.Get)))
}

func registerExportRoutes(mux *http.ServeMux, h *ExportHandlers, authn *Authenticator) {
	mux.Handle("POST /api/export", authn.RequireAuth(http.HandlerFunc(h.Start)))
	mux.Handle("GET /api/export/{id}", authn.RequireAuth(http.HandlerFunc(h.Status)))
	mux.Handle("DELETE /api/export/{id}", authn.RequireAuth(http.HandlerFunc(h.Cancel)))
}

// Browser navigation: the route guard decides between rendering the
// app shell and redirecting, per role.
func registerPageRoutes(mux *http.ServeMux, authn *Authenticator) {
	pages := &PageHandlers{}
	mux.Handle("GET /{$}", authn.OptionalAuth(http.HandlerFunc(pages.Root)))
	mux.Handle("GET /login", authn.OptionalAuth(http.HandlerFunc(pages.Login)))
	mux.Handle("GET /chat", authn.GuardBrowser(false)(pages.App("Chat builder")))
	mux.Handle("GET /dashboard", authn.GuardBrowser(true)(pages.App("Dashboard")))
}
