package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NotificationModel handles database operations for user notifications
// and delivery preferences.
type NotificationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewNotification creates a new notification model.
func NewNotification(db *bun.DB, logger *zap.Logger) *NotificationModel {
	return &NotificationModel{
		db:     db,
		logger: logger.Named("db_notification"),
	}
}

// Deliver stores a notification, bundling it onto an unread row with the
// same bundle key from the last 24 hours when one exists.
func (r *NotificationModel) Deliver(ctx context.Context, notification *types.Notification) error {
	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*types.Notification)(nil)).
			Set("bundle_count = bundle_count + 1").
			Set("actor_id = ?", notification.ActorID).
			Set("message = ?", notification.Message).
			Set("updated_at = ?", now).
			Where("recipient_id = ?", notification.RecipientID).
			Where("bundle_key = ?", notification.BundleKey).
			Where("is_read = false").
			Where("created_at > ?", now.Add(-types.BundleWindow)).
			Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows > 0 {
			return nil
		}

		notification.BundleCount = 1
		_, err = tx.NewInsert().Model(notification).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}

	return nil
}

// List retrieves a page of a user's notifications, newest first,
// optionally limited to unread ones.
func (r *NotificationModel) List(
	ctx context.Context, recipientID int64, unreadOnly bool, limit, offset int,
) ([]*types.Notification, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Notification, error) {
		var notifications []*types.Notification
		q := r.db.NewSelect().
			Model(&notifications).
			Where("recipient_id = ?", recipientID).
			Order("updated_at DESC", "id DESC").
			Limit(limit).
			Offset(offset)
		if unreadOnly {
			q = q.Where("is_read = false")
		}
		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}
		return notifications, nil
	})
}

// UnreadCount returns how many unread notifications a user has.
func (r *NotificationModel) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Notification)(nil)).
			Where("recipient_id = ?", recipientID).
			Where("is_read = false").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count unread notifications: %w", err)
		}
		return count, nil
	})
}

// MarkRead marks one notification read. The recipient check keeps users
// from acknowledging other users' notifications.
func (r *NotificationModel) MarkRead(ctx context.Context, id, recipientID int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		res, err := r.db.NewUpdate().
			Model((*types.Notification)(nil)).
			Set("is_read = true").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Where("recipient_id = ?", recipientID).
			Exec(ctx)
		if err != nil {
			return err
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return types.ErrNotificationNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrNotificationNotFound) {
			return types.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllRead marks every unread notification of a user read and returns
// how many were affected.
func (r *NotificationModel) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		res, err := r.db.NewUpdate().
			Model((*types.Notification)(nil)).
			Set("is_read = true").
			Set("updated_at = ?", time.Now()).
			Where("recipient_id = ?", recipientID).
			Where("is_read = false").
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to mark notifications read: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read mark result: %w", err)
		}
		return rows, nil
	})
}

// GetPrefs retrieves a user's notification preferences, falling back to
// defaults when they never saved any.
func (r *NotificationModel) GetPrefs(ctx context.Context, userID int64) (*types.NotificationPrefs, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.NotificationPrefs, error) {
		var prefs types.NotificationPrefs
		err := r.db.NewSelect().
			Model(&prefs).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &types.NotificationPrefs{UserID: userID}, nil
			}
			return nil, fmt.Errorf("failed to get notification prefs: %w", err)
		}
		return &prefs, nil
	})
}

// UpsertPrefs stores a user's notification preferences.
func (r *NotificationModel) UpsertPrefs(ctx context.Context, prefs *types.NotificationPrefs) error {
	prefs.UpdatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(prefs).
			On("CONFLICT (user_id) DO UPDATE").
			Set("disabled_types = EXCLUDED.disabled_types").
			Set("dnd_enabled = EXCLUDED.dnd_enabled").
			Set("dnd_start_hour = EXCLUDED.dnd_start_hour").
			Set("dnd_end_hour = EXCLUDED.dnd_end_hour").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert notification prefs: %w", err)
	}

	return nil
}
