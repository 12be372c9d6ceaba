package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/pkg/utils"
	"go.uber.org/zap"
)

// CreateCategoryParams carries the inputs for creating a category.
type CreateCategoryParams struct {
	Name         string
	Description  string
	ParentID     int64
	DisplayOrder int
}

// CategoryService handles category taxonomy business logic.
type CategoryService struct {
	model  *models.CategoryModel
	logger *zap.Logger
}

// NewCategory creates a new category service.
func NewCategory(model *models.CategoryModel, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		model:  model,
		logger: logger.Named("category_service"),
	}
}

// Create adds a category. Admin only. The level is derived from the
// parent; nesting beyond two levels is rejected.
func (s *CategoryService) Create(ctx context.Context, role enum.UserRole, params CreateCategoryParams) (*types.Category, error) {
	if !role.AtLeast(enum.UserRoleAdmin) {
		return nil, types.ErrNotAdmin
	}

	level := 1
	if params.ParentID != 0 {
		parent, err := s.model.GetCategoryByID(ctx, params.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Level >= 2 {
			return nil, types.ErrCategoryDepth
		}
		level = parent.Level + 1
	}

	category := &types.Category{
		Name:         params.Name,
		Slug:         utils.Slugify(params.Name),
		Description:  params.Description,
		ParentID:     params.ParentID,
		Level:        level,
		DisplayOrder: params.DisplayOrder,
		IsActive:     true,
	}

	if err := s.model.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategoryParams carries the inputs for editing a category.
// A nil ParentID leaves the category where it is; zero moves it to
// the root.
type UpdateCategoryParams struct {
	Name         string
	Description  string
	DisplayOrder int
	ParentID     *int64
}

// Update edits a category's name, description, order and placement.
// Admin only. The slug is stable: renames do not break existing links.
func (s *CategoryService) Update(
	ctx context.Context, role enum.UserRole, id int64, params UpdateCategoryParams,
) (*types.Category, error) {
	if !role.AtLeast(enum.UserRoleAdmin) {
		return nil, types.ErrNotAdmin
	}

	category, err := s.model.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ParentID != nil && *params.ParentID != category.ParentID {
		if err := s.reparent(ctx, category, *params.ParentID); err != nil {
			return nil, err
		}
	}

	category.Name = params.Name
	category.Description = params.Description
	category.DisplayOrder = params.DisplayOrder

	if err := s.model.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// reparent moves a category under a new parent, or to the root when
// parentID is zero. The move must keep the taxonomy two levels deep
// and acyclic.
func (s *CategoryService) reparent(ctx context.Context, category *types.Category, parentID int64) error {
	if parentID == 0 {
		category.ParentID = 0
		category.Level = 1
		return nil
	}

	categories, err := s.model.GetCategories(ctx, true)
	if err != nil {
		return err
	}

	if WouldCycle(categories, category.ID, parentID) {
		return types.ErrCategoryCycle
	}

	var parent *types.Category
	for _, candidate := range categories {
		if candidate.ID == parentID {
			parent = candidate
		}
		if candidate.ParentID == category.ID {
			// Children would sink to level 3.
			return types.ErrCategoryDepth
		}
	}
	if parent == nil {
		return types.ErrCategoryNotFound
	}
	if parent.Level >= 2 {
		return types.ErrCategoryDepth
	}

	category.ParentID = parentID
	category.Level = parent.Level + 1

	return nil
}

// WouldCycle reports whether parenting the category under newParentID
// would make it its own ancestor.
func WouldCycle(categories []*types.Category, id, newParentID int64) bool {
	byID := make(map[int64]*types.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	seen := make(map[int64]struct{}, len(categories))
	for current := newParentID; current != 0; {
		if current == id {
			return true
		}
		if _, ok := seen[current]; ok {
			return true
		}
		seen[current] = struct{}{}

		parent, ok := byID[current]
		if !ok {
			return false
		}
		current = parent.ParentID
	}

	return false
}

// SetActive activates or deactivates a category. Admin only.
func (s *CategoryService) SetActive(ctx context.Context, role enum.UserRole, id int64, active bool) error {
	if !role.AtLeast(enum.UserRoleAdmin) {
		return types.ErrNotAdmin
	}

	category, err := s.model.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}

	category.IsActive = active
	return s.model.UpdateCategory(ctx, category)
}

// Tree returns the category taxonomy as ordered trees.
func (s *CategoryService) Tree(ctx context.Context, includeInactive bool) ([]*types.Category, error) {
	categories, err := s.model.GetCategories(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return BuildCategoryTree(categories), nil
}

// BuildCategoryTree nests flat category rows under their parents,
// preserving the display order the query returned them in.
func BuildCategoryTree(categories []*types.Category) []*types.Category {
	byID := make(map[int64]*types.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	roots := make([]*types.Category, 0, len(categories))
	for _, category := range categories {
		if parent, ok := byID[category.ParentID]; ok && category.ParentID != category.ID {
			parent.Children = append(parent.Children, category)
		} else {
			roots = append(roots, category)
		}
	}

	return roots
}

// GetBySlug retrieves one category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*types.Category, error) {
	return s.model.GetCategoryBySlug(ctx, slug)
}

// AssignModerator grants a user moderation rights over a category.
// Admin only; assigning twice is a no-op.
func (s *CategoryService) AssignModerator(ctx context.Context, role enum.UserRole, categoryID, userID, assignedBy int64) error {
	if !role.AtLeast(enum.UserRoleAdmin) {
		return types.ErrNotAdmin
	}

	if _, err := s.model.GetCategoryByID(ctx, categoryID); err != nil {
		return err
	}

	return s.model.AddModerator(ctx, &types.CategoryModerator{
		CategoryID: categoryID,
		UserID:     userID,
		AssignedBy: assignedBy,
		AssignedAt: time.Now(),
	})
}

// RemoveModerator revokes a user's category moderation rights. Admin only.
func (s *CategoryService) RemoveModerator(ctx context.Context, role enum.UserRole, categoryID, userID int64) error {
	if !role.AtLeast(enum.UserRoleAdmin) {
		return types.ErrNotAdmin
	}

	return s.model.RemoveModerator(ctx, categoryID, userID)
}

// ListModerators retrieves the moderators assigned to a category.
func (s *CategoryService) ListModerators(ctx context.Context, categoryID int64) ([]*types.CategoryModerator, error) {
	moderators, err := s.model.GetModerators(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category moderators: %w", err)
	}
	return moderators, nil
}
