//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNotificationLen = 2000

// Notification is a message delivered to a single user, created by an
// admin from the user management console.
type Notification struct {
	ID        int64     `json:"id"         db:"id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Message   string    `json:"message"    db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateNotificationRequest contains fields to send a notice to a user.
type CreateNotificationRequest struct {
	Message string `json:"message"`
}

// Validate checks notification input.
func (r CreateNotificationRequest) Validate() error {
	m := strings.TrimSpace(r.Message)
	if m == "" {
		return errors.New("message is required and cannot be empty")
	}
	if utf8.RuneCountInString(m) > maxNotificationLen {
		return errors.New("message cannot exceed 2000 characters")
	}
	return nil
}
