package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpdf/ui-api/internal/data"
	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
)

func TestUserService_Delete(t *testing.T) {
	t.Run("cannot delete own account", func(t *testing.T) {
		users := &mockUserRepo{
			deleteFn: func(context.Context, int64) error {
				t.Fatal("delete must not reach the repository")
				return nil
			},
		}
		svc := NewUserService(UserServiceOptions{Users: users, Notifications: &mockNotificationRepo{}})

		err := svc.Delete(context.Background(), 7, 7)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("deletes another account", func(t *testing.T) {
		deleted := int64(0)
		users := &mockUserRepo{
			deleteFn: func(_ context.Context, id int64) error {
				deleted = id
				return nil
			},
		}
		svc := NewUserService(UserServiceOptions{Users: users, Notifications: &mockNotificationRepo{}})

		require.NoError(t, svc.Delete(context.Background(), 7, 8))
		assert.Equal(t, int64(8), deleted)
	})
}

func TestUserService_Notify(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			if id != 3 {
				return nil, data.ErrUserNotFound
			}
			return &model.User{ID: id}, nil
		},
	}
	notifications := &mockNotificationRepo{
		createFn: func(_ context.Context, userID int64, message string) (*model.Notification, error) {
			return &model.Notification{ID: 1, UserID: userID, Message: message}, nil
		},
	}
	svc := NewUserService(UserServiceOptions{Users: users, Notifications: notifications})

	t.Run("sends a notice", func(t *testing.T) {
		n, err := svc.Notify(context.Background(), 3, model.CreateNotificationRequest{Message: "hello"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n.UserID)
		assert.Equal(t, "hello", n.Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Notify(context.Background(), 99, model.CreateNotificationRequest{Message: "hello"})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := svc.Notify(context.Background(), 3, model.CreateNotificationRequest{Message: "  "})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestNotificationService_Delete(t *testing.T) {
	notifications := &mockNotificationRepo{
		deleteFn: func(_ context.Context, id, userID int64) error {
			if userID != 1 {
				return data.ErrNotificationNotFound
			}
			return nil
		},
	}
	svc := NewNotificationService(NotificationServiceOptions{Notifications: notifications})

	assert.NoError(t, svc.Delete(context.Background(), 10, 1))

	err := svc.Delete(context.Background(), 10, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "deletes are owner scoped")
}
