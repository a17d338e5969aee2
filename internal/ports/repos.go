package ports

import (
	"context"
	"time"

	"github.com/smartpdf/ui-api/internal/domain/model"
)

// UserRepository is the persistence surface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, p model.CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.AdminUserView, error)
	Activate(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, userID int64, message string) (*model.Notification, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error)
	Delete(ctx context.Context, id, userID int64) error
}

// TemplateRepository stores saved document templates.
type TemplateRepository interface {
	Save(ctx context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error)
	GetByID(ctx context.Context, id, userID int64) (*model.Template, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.Template, error)
}
