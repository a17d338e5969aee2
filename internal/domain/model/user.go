//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/smartpdf/ui-api/internal/domain/auth"
)

const (
	maxNameLen  = 255
	maxEmailLen = 320
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 8
)

// User represents an account. PasswordHash never leaves the data layer;
// it is excluded from JSON.
type User struct {
	ID           int64     `json:"id"              db:"id"`
	Name         string    `json:"name"            db:"name"`
	Email        string    `json:"email"           db:"email"`
	Phone        string    `json:"phone_number"    db:"phone"`
	Profession   string    `json:"profession"      db:"profession"`
	Role         auth.Role `json:"role"            db:"role"`
	Active       bool      `json:"active"          db:"active"`
	PasswordHash string    `json:"-"               db:"password_hash"`
	JoinedAt     time.Time `json:"joined_date"     db:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"      db:"updated_at"`
}

// AdminUserView is the projection returned to the admin user list.
type AdminUserView struct {
	ID         int64     `json:"id"           db:"id"`
	Name       string    `json:"name"         db:"name"`
	Email      string    `json:"email"        db:"email"`
	Phone      string    `json:"phone_number" db:"phone"`
	Profession string    `json:"profession"   db:"profession"`
	Role       auth.Role `json:"role"         db:"role"`
	JoinedAt   time.Time `json:"joined_date"  db:"joined_at"`
}

// CreateUserParams carries the validated, hashed form of a registration
// into the data layer.
type CreateUserParams struct {
	Email        string
	Phone        string
	Role         auth.Role
	PasswordHash string
}

// CreateUserRequest contains fields to register a new account.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Validate checks registration input before it reaches the data layer.
func (r CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.Password) == "" {
		return errors.New("Please fill in all fields")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

// UpdateProfileRequest contains the mutable profile fields.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone_number,omitempty"`
	Profession *string `json:"profession,omitempty"`
}

// Validate checks profile update input.
func (r UpdateProfileRequest) Validate() error {
	if r.Name == nil && r.Phone == nil && r.Profession == nil {
		return errors.New("no fields to update")
	}
	if r.Name != nil && utf8.RuneCountInString(*r.Name) > maxNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return errors.New("Password must be at least 8 characters")
	}
	return nil
}

func validateEmail(email string) error {
	e := strings.TrimSpace(email)
	if utf8.RuneCountInString(e) > maxEmailLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if _, err := mail.ParseAddress(e); err != nil {
		return errors.New("invalid email address")
	}
	return nil
}
