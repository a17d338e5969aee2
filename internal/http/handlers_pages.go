package httpx

import (
	"html/template"
	"net/http"

	domainauth "github.com/smartpdf/ui-api/internal/domain/auth"
)

// The API is JSON, but direct browser navigation still has to land in
// the right place: the route guard bounces visitors between /login,
// /chat, and /dashboard before the single-page app boots. Guarded
// routes serve the app shell the frontend build mounts into.

var appShell = template.Must(template.New("shell").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - SmartPDF</title>
</head>
<body>
<div id="root"></div>
<script type="module" src="/assets/app.js"></script>
</body>
</html>
`))

type shellData struct {
	Title string
}

// PageHandlers serves the browser entry points.
type PageHandlers struct{}

// Root redirects to the visitor's landing page: login when
// unauthenticated, the role's default area otherwise.
func (h *PageHandlers) Root(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, domainauth.DefaultArea(session.Role), http.StatusSeeOther)
}

// Login renders the sign-in page. Authenticated visitors are bounced
// to their default area instead.
func (h *PageHandlers) Login(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	role := domainauth.RoleGuest
	if session != nil {
		role = session.Role
	}
	if domainauth.PublicDecide(session != nil, role) == domainauth.DecisionRedirectDefault {
		http.Redirect(w, r, domainauth.DefaultArea(role), http.StatusSeeOther)
		return
	}
	h.renderShell(w, "Sign in")
}

// App returns a handler that serves the app shell with the given page
// title. Access control happens in the surrounding GuardBrowser.
func (h *PageHandlers) App(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.renderShell(w, title)
	})
}

func (h *PageHandlers) renderShell(w http.ResponseWriter, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Static template; the only failure mode is a dead connection.
	_ = appShell.Execute(w, shellData{Title: title})
}
