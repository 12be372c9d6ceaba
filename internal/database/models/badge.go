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

// BadgeModel handles database operations for badge definitions and awards.
type BadgeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBadge creates a new badge model.
func NewBadge(db *bun.DB, logger *zap.Logger) *BadgeModel {
	return &BadgeModel{
		db:     db,
		logger: logger.Named("db_badge"),
	}
}

// ListBadges retrieves all badge definitions.
func (r *BadgeModel) ListBadges(ctx context.Context) ([]*types.Badge, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Badge, error) {
		var badges []*types.Badge
		err := r.db.NewSelect().
			Model(&badges).
			Order("id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list badges: %w", err)
		}
		return badges, nil
	})
}

// GetBadgeByCode retrieves a badge definition by its code.
func (r *BadgeModel) GetBadgeByCode(ctx context.Context, code string) (*types.Badge, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Badge, error) {
		var badge types.Badge
		err := r.db.NewSelect().
			Model(&badge).
			Where("code = ?", code).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrBadgeNotFound
			}
			return nil, fmt.Errorf("failed to get badge: %w", err)
		}
		return &badge, nil
	})
}

// ListUserBadges retrieves the badges a user has earned.
func (r *BadgeModel) ListUserBadges(ctx context.Context, userID int64) ([]*types.UserBadge, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.UserBadge, error) {
		var badges []*types.UserBadge
		err := r.db.NewSelect().
			Model(&badges).
			Relation("Badge").
			Where("user_badge.user_id = ?", userID).
			Order("user_badge.awarded_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list user badges: %w", err)
		}
		return badges, nil
	})
}

// AwardBadge grants a badge to a user. Returns whether a new award was
// actually written; awarding is idempotent.
func (r *BadgeModel) AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		res, err := r.db.NewInsert().
			Model(&types.UserBadge{
				UserID:    userID,
				BadgeID:   badgeID,
				AwardedAt: time.Now(),
			}).
			On("CONFLICT (user_id, badge_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to award badge: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read award result: %w", err)
		}
		return rows > 0, nil
	})
}
