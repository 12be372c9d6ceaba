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

// UserModel handles database operations for user identity rows.
type UserModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewUser creates a new user model.
func NewUser(db *bun.DB, logger *zap.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger.Named("db_user"),
	}
}

// CreateUser inserts a new user row.
func (r *UserModel) CreateUser(ctx context.Context, user *types.User) error {
	user.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(user).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserModel) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.User, error) {
		var user types.User
		err := r.db.NewSelect().
			Model(&user).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return &user, nil
	})
}

// GetUserByUsername retrieves a user by their unique username.
func (r *UserModel) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.User, error) {
		var user types.User
		err := r.db.NewSelect().
			Model(&user).
			Where("username = ?", username).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get user by username: %w", err)
		}
		return &user, nil
	})
}

// GetUsersByUsernames retrieves the users matching the given usernames.
// Unknown usernames are silently skipped.
func (r *UserModel) GetUsersByUsernames(ctx context.Context, usernames []string) ([]*types.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}

	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.User, error) {
		var users []*types.User
		err := r.db.NewSelect().
			Model(&users).
			Where("username IN (?)", bun.In(usernames)).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users by usernames: %w", err)
		}
		return users, nil
	})
}

// SetSuspendedUntil sets or clears a user's suspension end time.
func (r *UserModel) SetSuspendedUntil(ctx context.Context, userID int64, until time.Time) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.User)(nil)).
			Set("suspended_until = ?", until).
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set suspension: %w", err)
	}

	return nil
}

// SetBanned flips a user's permanent ban flag.
func (r *UserModel) SetBanned(ctx context.Context, userID int64, banned bool) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.User)(nil)).
			Set("is_banned = ?", banned).
			Where("id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set banned flag: %w", err)
	}

	return nil
}
