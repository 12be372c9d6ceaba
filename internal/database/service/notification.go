package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"go.uber.org/zap"
)

// NotificationService handles notification delivery, bundling and
// preference business logic.
type NotificationService struct {
	model  *models.NotificationModel
	logger *zap.Logger
}

// NewNotification creates a new notification service.
func NewNotification(model *models.NotificationModel, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		model:  model,
		logger: logger.Named("notification_service"),
	}
}

// BundleKey groups repeated similar events so they coalesce into one
// notification row with an incrementing count.
func BundleKey(t enum.NotificationType, targetType enum.TargetType, targetID int64) string {
	return fmt.Sprintf("%s:%s:%d", t, targetType, targetID)
}

// InDNDWindow reports whether now falls inside the user's do-not-disturb
// window. The window is in UTC hours and may wrap past midnight.
func InDNDWindow(prefs *types.NotificationPrefs, now time.Time) bool {
	if !prefs.DNDEnabled {
		return false
	}

	hour := now.UTC().Hour()
	start, end := prefs.DNDStartHour, prefs.DNDEndHour

	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// Notify delivers a notification to a user, honoring their preferences.
// Delivery is best-effort: failures are logged, never surfaced. Users are
// never notified about their own actions.
func (s *NotificationService) Notify(ctx context.Context, notification *types.Notification) {
	if notification.ActorID != 0 && notification.ActorID == notification.RecipientID {
		return
	}

	prefs, err := s.model.GetPrefs(ctx, notification.RecipientID)
	if err != nil {
		s.logger.Error("Failed to load notification prefs",
			zap.Error(err),
			zap.Int64("recipientID", notification.RecipientID))
		return
	}

	if prefs.TypeDisabled(notification.Type) {
		return
	}

	notification.BundleKey = BundleKey(notification.Type, notification.TargetType, notification.TargetID)
	if !InDNDWindow(prefs, time.Now()) {
		notification.DeliveredAt = time.Now()
	}

	if err := s.model.Deliver(ctx, notification); err != nil {
		s.logger.Error("Failed to deliver notification",
			zap.Error(err),
			zap.Int64("recipientID", notification.RecipientID),
			zap.String("type", string(notification.Type)))
		return
	}

	s.logger.Debug("Delivered notification",
		zap.Int64("recipientID", notification.RecipientID),
		zap.String("type", string(notification.Type)))
}

// List retrieves a page of a user's notifications.
func (s *NotificationService) List(
	ctx context.Context, recipientID int64, unreadOnly bool, limit, offset int,
) ([]*types.Notification, error) {
	notifications, err := s.model.List(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns how many unread notifications a user has.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	count, err := s.model.UnreadCount(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID int64) error {
	return s.model.MarkRead(ctx, id, recipientID)
}

// MarkAllRead marks all of the user's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return s.model.MarkAllRead(ctx, recipientID)
}

// GetPrefs retrieves a user's notification preferences.
func (s *NotificationService) GetPrefs(ctx context.Context, userID int64) (*types.NotificationPrefs, error) {
	return s.model.GetPrefs(ctx, userID)
}

// UpdatePrefs validates and stores a user's notification preferences.
func (s *NotificationService) UpdatePrefs(ctx context.Context, prefs *types.NotificationPrefs) error {
	if prefs.DNDStartHour < 0 || prefs.DNDStartHour > 23 ||
		prefs.DNDEndHour < 0 || prefs.DNDEndHour > 23 {
		return types.ErrInvalidDNDWindow
	}

	if err := s.model.UpsertPrefs(ctx, prefs); err != nil {
		return fmt.Errorf("failed to update notification prefs: %w", err)
	}
	return nil
}
