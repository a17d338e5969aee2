package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name            string
		isAuthenticated bool
		role            Role
		requiresAdmin   bool
		want            Decision
	}{
		{name: "unauthenticated user route", isAuthenticated: false, role: RoleGuest, requiresAdmin: false, want: DecisionRedirectLogin},
		{name: "unauthenticated admin route", isAuthenticated: false, role: RoleGuest, requiresAdmin: true, want: DecisionRedirectLogin},
		{name: "unauthenticated with stale admin role", isAuthenticated: false, role: RoleAdmin, requiresAdmin: true, want: DecisionRedirectLogin},
		{name: "user on admin route", isAuthenticated: true, role: RoleUser, requiresAdmin: true, want: DecisionRedirectDefault},
		{name: "guest on admin route", isAuthenticated: true, role: RoleGuest, requiresAdmin: true, want: DecisionRedirectDefault},
		{name: "admin on admin route", isAuthenticated: true, role: RoleAdmin, requiresAdmin: true, want: DecisionRender},
		{name: "user on user route", isAuthenticated: true, role: RoleUser, requiresAdmin: false, want: DecisionRender},
		{name: "admin on user route", isAuthenticated: true, role: RoleAdmin, requiresAdmin: false, want: DecisionRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.isAuthenticated, tt.role, tt.requiresAdmin)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicDecide(t *testing.T) {
	assert.Equal(t, DecisionRender, PublicDecide(false, RoleGuest))
	assert.Equal(t, DecisionRedirectDefault, PublicDecide(true, RoleUser))
	assert.Equal(t, DecisionRedirectDefault, PublicDecide(true, RoleAdmin))
}

func TestDefaultArea(t *testing.T) {
	assert.Equal(t, "/dashboard", DefaultArea(RoleAdmin))
	assert.Equal(t, "/chat", DefaultArea(RoleUser))
	assert.Equal(t, "/chat", DefaultArea(RoleGuest))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleGuest, ParseRole(""))
	assert.Equal(t, RoleGuest, ParseRole("superuser"))
}
