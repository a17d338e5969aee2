package auth

// Decision is the outcome of a route guard evaluation.
type Decision int

const (
	// DecisionRender allows the navigation target to render.
	DecisionRender Decision = iota
	// DecisionRedirectLogin sends the visitor to the login page.
	DecisionRedirectLogin
	// DecisionRedirectDefault sends the visitor to their role's default area.
	DecisionRedirectDefault
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// DefaultArea returns the landing path for a role: admins get the
// dashboard, everyone else the chat builder.
func DefaultArea(role Role) string {
	if role == RoleAdmin {
		return "/dashboard"
	}
	return "/chat"
}

// Decide evaluates a protected navigation target.
//
// Unauthenticated visitors always redirect to login. Authenticated
// non-admins hitting an admin-only target redirect to their default
// area; everything else renders.
func Decide(isAuthenticated bool, role Role, requiresAdmin bool) Decision {
	if !isAuthenticated {
		return DecisionRedirectLogin
	}
	if requiresAdmin && role != RoleAdmin {
		return DecisionRedirectDefault
	}
	return DecisionRender
}

// PublicDecide evaluates a public-only target (login, registration).
// Authenticated visitors are bounced to their role's default area.
func PublicDecide(isAuthenticated bool, role Role) Decision {
	if isAuthenticated {
		return DecisionRedirectDefault
	}
	return DecisionRender
}
