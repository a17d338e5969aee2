package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  CreateUserRequest{Email: "a@b.com", Phone: "555", Role: "user", Password: "longenough"},
		},
		{
			name:    "missing email",
			req:     CreateUserRequest{Password: "longenough"},
			wantErr: "Please fill in all fields",
		},
		{
			name:    "missing password",
			req:     CreateUserRequest{Email: "a@b.com"},
			wantErr: "Please fill in all fields",
		},
		{
			name:    "short password",
			req:     CreateUserRequest{Email: "a@b.com", Password: "short"},
			wantErr: "Password must be at least 8 characters",
		},
		{
			name:    "bad email",
			req:     CreateUserRequest{Email: "not-an-email", Password: "longenough"},
			wantErr: "invalid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	name := "New Name"
	assert.NoError(t, UpdateProfileRequest{Name: &name}.Validate())

	assert.Error(t, UpdateProfileRequest{}.Validate(), "empty update rejected")

	long := strings.Repeat("x", 300)
	assert.Error(t, UpdateProfileRequest{Name: &long}.Validate())
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword("1234567"))
}
