package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// sessionCookieName carries the session ID for browser navigation; API
// calls use the Authorization header.
const sessionCookieName = "session_id"

// Authenticator resolves requests to sessions and is the only place
// that emits 401 responses. Handlers past it can rely on a session
// being in the context.
type Authenticator struct {
	Tokens       *domainauth.TokenManager
	Sessions     ports.SessionStore
	CookieDomain string
}

// sessionFromRequest resolves the caller's session, preferring a bearer
// access token and falling back to the session cookie. A token whose
// session has been deleted server-side is rejected regardless of its
// expiry.
func (a *Authenticator) sessionFromRequest(r *http.Request) *domainauth.Session {
	if sid := a.sessionIDFromBearer(r); sid != "" {
		return a.loadSession(r, sid)
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return a.loadSession(r, cookie.Value)
	}
	return nil
}

func (a *Authenticator) sessionIDFromBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return ""
	}
	claims, err := a.Tokens.VerifyAccess(token)
	if err != nil {
		return ""
	}
	return claims.SessionID
}

func (a *Authenticator) loadSession(r *http.Request, id string) *domainauth.Session {
	sess, err := a.Sessions.Get(r.Context(), id)
	if err != nil {
		return nil
	}
	return &sess
}

// unauthorized is the single 401 emitter: it clears the session cookie
// and writes the JSON error.
func (a *Authenticator) unauthorized(w http.ResponseWriter) {
	a.ClearSessionCookie(w)
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// ClearSessionCookie expires the browser session cookie.
func (a *Authenticator) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   a.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSessionCookie attaches the session ID for browser navigation.
func (a *Authenticator) SetSessionCookie(w http.ResponseWriter, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Domain:   a.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth requires an authenticated session.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := a.sessionFromRequest(r)
		if session == nil {
			a.unauthorized(w)
			return
		}
		ctx := SetSessionInContext(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole requires an authenticated session whose role meets the
// required one. Hierarchy: guest < user < admin.
func (a *Authenticator) RequireRole(requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := a.sessionFromRequest(r)
			if session == nil {
				a.unauthorized(w)
				return
			}
			if !hasRequiredRole(session.Role, requiredRole) {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth adds the session to the context when present and lets
// the request through either way.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := a.sessionFromRequest(r); session != nil {
			r = r.WithContext(SetSessionInContext(r.Context(), session))
		}
		next.ServeHTTP(w, r)
	})
}

// GuardBrowser applies the route guard decision for browser
// navigation: unauthenticated users go to the login page, authenticated
// users lacking the role go to their own default area.
func (a *Authenticator) GuardBrowser(requiresAdmin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := a.sessionFromRequest(r)
			role := domainauth.RoleGuest
			if session != nil {
				role = session.Role
			}

			switch domainauth.Decide(session != nil, role, requiresAdmin) {
			case domainauth.DecisionRedirectLogin:
				http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
			case domainauth.DecisionRedirectDefault:
				http.Redirect(w, r, domainauth.DefaultArea(role), http.StatusSeeOther)
			default:
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// hasRequiredRole checks the role hierarchy: guest < user < admin.
func hasRequiredRole(userRole, requiredRole domainauth.Role) bool {
	roleHierarchy := map[domainauth.Role]int{
		domainauth.RoleGuest: 0,
		domainauth.RoleUser:  1,
		domainauth.RoleAdmin: 2,
	}

	userLevel, userExists := roleHierarchy[userRole]
	requiredLevel, requiredExists := roleHierarchy[requiredRole]
	if !userExists || !requiredExists {
		return false
	}
	return userLevel >= requiredLevel
}
