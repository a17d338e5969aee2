// Package devseed populates a development database with accounts and a
// sample template so the app is usable right after `docker-compose up`.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartpdf/ui-api/internal/data"
	"github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
)

const (
	adminEmail = "admin@smartpdf.local"
	demoEmail  = "demo@smartpdf.local"
	// Dev-only credential, printed in the startup log.
	devPassword = "password123"
)

// Run seeds an admin and a demo account with a sample template. It is
// idempotent: accounts that already exist are left alone.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	users := data.NewUserRepo(db)
	templates := data.NewTemplateRepo(db)

	if err := seedUser(ctx, users, adminEmail, auth.RoleAdmin); err != nil {
		return err
	}

	demo, err := users.GetByEmail(ctx, demoEmail)
	if apperrors.IsNotFound(err) {
		if err = seedUser(ctx, users, demoEmail, auth.RoleUser); err != nil {
			return err
		}
		demo, err = users.GetByEmail(ctx, demoEmail)
	}
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	existing, err := templates.ListForUser(ctx, demo.ID)
	if err != nil {
		return fmt.Errorf("list demo templates: %w", err)
	}
	if len(existing) == 0 {
		_, err = templates.Save(ctx, demo.ID, model.SaveTemplateRequest{
			Title:   "Welcome to SmartPDF",
			Content: `{"title":"Welcome to SmartPDF","subtitle":"A sample document","description":"Edit this template in the chat builder, then export it as PDF or DOCX."}`,
			KeyPoints: []string{
				"Describe your document in the chat builder",
				"Save the generated template",
				"Export it as PDF or DOCX",
			},
		})
		if err != nil {
			return fmt.Errorf("seed demo template: %w", err)
		}
	}

	logger.InfoContext(ctx, "development data seeded",
		"admin", adminEmail, "demo", demoEmail, "password", devPassword)
	return nil
}

func seedUser(ctx context.Context, users *data.UserRepo, email string, role auth.Role) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(devPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	u, err := users.Create(ctx, model.CreateUserParams{
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	})
	if apperrors.IsConflict(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed %s: %w", email, err)
	}
	return users.Activate(ctx, u.ID)
}
