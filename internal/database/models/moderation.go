package models

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ModerationModel handles database operations for the moderation audit
// log and user warnings. Log rows are write-once.
type ModerationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewModeration creates a new moderation model.
func NewModeration(db *bun.DB, logger *zap.Logger) *ModerationModel {
	return &ModerationModel{
		db:     db,
		logger: logger.Named("db_moderation"),
	}
}

// Log stores a moderation action in the audit trail. Failures are logged
// and swallowed: auditing is best-effort and never fails the action.
func (r *ModerationModel) Log(ctx context.Context, entry *types.ModerationLog) {
	entry.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(entry).Exec(ctx)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to log moderation action",
			zap.Error(err),
			zap.Int64("moderatorID", entry.ModeratorID),
			zap.String("action", string(entry.Action)),
			zap.String("targetType", string(entry.TargetType)),
			zap.Int64("targetID", entry.TargetID))
		return
	}

	r.logger.Debug("Logged moderation action",
		zap.Int64("moderatorID", entry.ModeratorID),
		zap.String("action", string(entry.Action)),
		zap.String("targetType", string(entry.TargetType)),
		zap.Int64("targetID", entry.TargetID))
}

// ListLogs retrieves a page of the audit trail, newest first.
func (r *ModerationModel) ListLogs(
	ctx context.Context, filter types.ModerationLogFilter, limit, offset int,
) ([]*types.ModerationLog, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ModerationLog, error) {
		var logs []*types.ModerationLog
		q := r.db.NewSelect().
			Model(&logs).
			Order("created_at DESC", "id DESC").
			Limit(limit).
			Offset(offset)

		if filter.ModeratorID != 0 {
			q = q.Where("moderator_id = ?", filter.ModeratorID)
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.TargetType != "" {
			q = q.Where("target_type = ?", filter.TargetType)
		}
		if filter.TargetID != 0 {
			q = q.Where("target_id = ?", filter.TargetID)
		}
		if !filter.Since.IsZero() {
			q = q.Where("created_at >= ?", filter.Since)
		}
		if !filter.Until.IsZero() {
			q = q.Where("created_at < ?", filter.Until)
		}

		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list moderation logs: %w", err)
		}
		return logs, nil
	})
}

// InsertWarning records a formal warning against a user.
func (r *ModerationModel) InsertWarning(ctx context.Context, warning *types.UserWarning) error {
	warning.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(warning).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert warning: %w", err)
	}

	return nil
}

// ListWarnings retrieves the warnings issued to a user, newest first.
func (r *ModerationModel) ListWarnings(ctx context.Context, userID int64) ([]*types.UserWarning, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.UserWarning, error) {
		var warnings []*types.UserWarning
		err := r.db.NewSelect().
			Model(&warnings).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list warnings: %w", err)
		}
		return warnings, nil
	})
}
