//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTemplateTitleLen = 255
	// MaxKeyPoints is the number of key-point slots in the rendered layout.
	MaxKeyPoints = 5
	// MaxImageSlots is the number of positional image slots in the rendered layout.
	MaxImageSlots = 6
)

// Template is a saved document description. Content is a JSON-encoded
// string describing title, subtitle, description, and design
// recommendations; it is parsed permissively at render time.
type Template struct {
	ID                    int64     `json:"id"                     db:"id"`
	UserID                int64     `json:"user_id"                db:"user_id"`
	Title                 string    `json:"title"                  db:"title"`
	Content               string    `json:"content"                db:"content"`
	DesignRecommendations string    `json:"design_recommendations" db:"design_recommendations"`
	KeyPoints             []string  `json:"key_points"             db:"key_points"`
	ImageResults          []string  `json:"image_results"          db:"image_results"`
	CreatedAt             time.Time `json:"created_at"             db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"             db:"updated_at"`
}

// SaveTemplateRequest contains fields to persist a template document.
type SaveTemplateRequest struct {
	Title                 string   `json:"title"`
	Content               string   `json:"content"`
	DesignRecommendations string   `json:"design_recommendations"`
	KeyPoints             []string `json:"key_points"`
	ImageResults          []string `json:"image_results"`
}

// Validate checks template input. Key points and image slots beyond the
// layout's capacity are rejected rather than silently truncated.
func (r SaveTemplateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxTemplateTitleLen {
		return errors.New("title cannot exceed 255 characters")
	}
	if len(r.KeyPoints) > MaxKeyPoints {
		return errors.New("too many key points")
	}
	if len(r.ImageResults) > MaxImageSlots {
		return errors.New("too many image results")
	}
	return nil
}

// GenerateTemplateRequest contains the chat input a template is built from.
type GenerateTemplateRequest struct {
	UserInput string `json:"user_input"`
}

// Validate checks generation input.
func (r GenerateTemplateRequest) Validate() error {
	if strings.TrimSpace(r.UserInput) == "" {
		return errors.New("user_input is required and cannot be empty")
	}
	return nil
}
