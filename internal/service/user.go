package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users         ports.UserRepository
	Notifications ports.NotificationRepository
	Logger        *slog.Logger
}

// UserService implements the admin console operations: listing
// accounts, removing them, and sending notices.
type UserService struct {
	users         ports.UserRepository
	notifications ports.NotificationRepository
	logger        *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Notifications == nil {
		panic("NotificationRepository is required")
	}
	return &UserService{
		users:         opts.Users,
		notifications: opts.Notifications,
		logger:        opts.Logger,
	}
}

// List returns active accounts for the admin console.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*model.AdminUserView, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete removes an account. Admins cannot delete themselves; notices
// and templates go with the account via cascade.
func (s *UserService) Delete(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return apperrors.Forbidden("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user deleted", "user_id", targetID, "deleted_by", actorID)
	}
	return nil
}

// Notify sends a notice to a user.
func (s *UserService) Notify(ctx context.Context, targetID int64, req model.CreateNotificationRequest) (*model.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	n, err := s.notifications.Create(ctx, targetID, req.Message)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}
