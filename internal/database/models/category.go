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
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// pgUniqueViolation is the SQLSTATE code for unique constraint violations.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgerr pgdriver.Error
	return errors.As(err, &pgerr) && pgerr.Field('C') == pgUniqueViolation
}

// CategoryModel handles database operations for the forum taxonomy.
type CategoryModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewCategory creates a new category model.
func NewCategory(db *bun.DB, logger *zap.Logger) *CategoryModel {
	return &CategoryModel{
		db:     db,
		logger: logger.Named("db_category"),
	}
}

// CreateCategory inserts a new category.
func (r *CategoryModel) CreateCategory(ctx context.Context, category *types.Category) error {
	category.CreatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(category).Exec(ctx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicateCategorySlug
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetCategoryByID retrieves a category by ID.
func (r *CategoryModel) GetCategoryByID(ctx context.Context, id int64) (*types.Category, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Category, error) {
		var category types.Category
		err := r.db.NewSelect().
			Model(&category).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		return &category, nil
	})
}

// GetCategoryBySlug retrieves a category by its slug.
func (r *CategoryModel) GetCategoryBySlug(ctx context.Context, slug string) (*types.Category, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Category, error) {
		var category types.Category
		err := r.db.NewSelect().
			Model(&category).
			Where("slug = ?", slug).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category by slug: %w", err)
		}
		return &category, nil
	})
}

// GetCategories retrieves all categories ordered for tree assembly.
// Inactive categories are included only when requested.
func (r *CategoryModel) GetCategories(ctx context.Context, includeInactive bool) ([]*types.Category, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Category, error) {
		var categories []*types.Category
		q := r.db.NewSelect().
			Model(&categories).
			Order("level ASC", "display_order ASC", "id ASC")
		if !includeInactive {
			q = q.Where("is_active = true")
		}
		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
		return categories, nil
	})
}

// UpdateCategory updates the editable fields of a category.
func (r *CategoryModel) UpdateCategory(ctx context.Context, category *types.Category) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model(category).
			Column("name", "description", "display_order", "is_active").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// RecountTopics refreshes a category's topic counter from the topics table.
// Drafts and archived topics are excluded from the count.
func (r *CategoryModel) RecountTopics(ctx context.Context, db bun.IDB, categoryID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Category)(nil)).
		Set("topic_count = (SELECT count(*) FROM topics WHERE category_id = ? AND status = 'active' AND is_draft = false)", categoryID).
		Where("id = ?", categoryID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to recount topics: %w", err)
	}

	return nil
}

// AddModerator assigns a user as moderator of a category. Idempotent.
func (r *CategoryModel) AddModerator(ctx context.Context, mod *types.CategoryModerator) error {
	mod.AssignedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().
			Model(mod).
			On("CONFLICT (category_id, user_id) DO NOTHING").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add category moderator: %w", err)
	}

	return nil
}

// RemoveModerator revokes a user's moderator assignment for a category.
func (r *CategoryModel) RemoveModerator(ctx context.Context, categoryID, userID int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewDelete().
			Model((*types.CategoryModerator)(nil)).
			Where("category_id = ?", categoryID).
			Where("user_id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove category moderator: %w", err)
	}

	return nil
}

// GetModerators lists the moderators assigned to a category.
func (r *CategoryModel) GetModerators(ctx context.Context, categoryID int64) ([]*types.CategoryModerator, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.CategoryModerator, error) {
		var mods []*types.CategoryModerator
		err := r.db.NewSelect().
			Model(&mods).
			Where("category_id = ?", categoryID).
			Order("assigned_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get category moderators: %w", err)
		}
		return mods, nil
	})
}

// IsModerator reports whether the user is an assigned moderator of the category.
func (r *CategoryModel) IsModerator(ctx context.Context, categoryID, userID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := r.db.NewSelect().
			Model((*types.CategoryModerator)(nil)).
			Where("category_id = ?", categoryID).
			Where("user_id = ?", userID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check category moderator: %w", err)
		}
		return exists, nil
	})
}
