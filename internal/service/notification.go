package service

import (
	"context"
	"fmt"

	"github.com/smartpdf/ui-api/internal/domain/model"
	"github.com/smartpdf/ui-api/internal/ports"
)

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Notifications ports.NotificationRepository
}

// NotificationService exposes a user's own notices.
type NotificationService struct {
	notifications ports.NotificationRepository
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	if opts.Notifications == nil {
		panic("NotificationRepository is required")
	}
	return &NotificationService{notifications: opts.Notifications}
}

// ListForUser returns the user's notices, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error) {
	out, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Delete removes one of the user's own notices. Deleting another
// user's notice reads as not found.
func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.notifications.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
