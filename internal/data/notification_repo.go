package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/smartpdf/ui-api/internal/errors"

	"github.com/smartpdf/ui-api/internal/data/pgxutil"
	"github.com/smartpdf/ui-api/internal/domain/model"
)

// ErrNotificationNotFound is returned when a notification is not found
// or belongs to a different user. It is an AppError so the apperrors
// predicates match it.
var ErrNotificationNotFound = apperrors.NotFound("notification not found")

const notificationListQuery = `
	SELECT id, user_id, message, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC`

// NotificationRepo provides database operations for notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo with real time provider.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a new NotificationRepo with a custom time provider.
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

// Create inserts a notification for the given user.
func (r *NotificationRepo) Create(ctx context.Context, userID int64, message string) (*model.Notification, error) {
	var out model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO notifications (user_id, message, created_at)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, message, created_at`,
			userID, message, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// ListForUser retrieves all notifications for a user, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error) {
	var rowsOut []model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, notificationListQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", apperrors.MapDBError(err))
	}

	out := make([]*model.Notification, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}

// Delete removes a notification scoped to its owner.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	var affected int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	}); err != nil {
		return fmt.Errorf("failed to delete notification: %w", apperrors.MapDBError(err))
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
