package service_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildCategoryTree(t *testing.T) {
	t.Parallel()

	categories := []*types.Category{
		{ID: 1, Name: "General"},
		{ID: 2, Name: "Help", ParentID: 1},
		{ID: 3, Name: "Announcements"},
		{ID: 4, Name: "Guides", ParentID: 2},
	}

	roots := service.BuildCategoryTree(categories)
	require.Len(t, roots, 2)

	assert.Equal(t, "General", roots[0].Name)
	assert.Equal(t, "Announcements", roots[1].Name)

	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Help", roots[0].Children[0].Name)

	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "Guides", roots[0].Children[0].Children[0].Name)
}

func TestBuildCategoryTreeMissingParent(t *testing.T) {
	t.Parallel()

	// Children of filtered-out parents surface as roots instead of vanishing
	categories := []*types.Category{
		{ID: 5, Name: "Orphan", ParentID: 99},
	}

	roots := service.BuildCategoryTree(categories)
	require.Len(t, roots, 1)
	assert.Equal(t, "Orphan", roots[0].Name)
}

func TestWouldCycle(t *testing.T) {
	t.Parallel()

	categories := []*types.Category{
		{ID: 1},
		{ID: 2, ParentID: 1},
		{ID: 3},
	}

	// Directly under itself
	assert.True(t, service.WouldCycle(categories, 1, 1))

	// Under its own child
	assert.True(t, service.WouldCycle(categories, 1, 2))

	// Under an unrelated root
	assert.False(t, service.WouldCycle(categories, 1, 3))
	assert.False(t, service.WouldCycle(categories, 2, 3))

	// Corrupt parent data must not hang the walk
	looped := []*types.Category{
		{ID: 5, ParentID: 6},
		{ID: 6, ParentID: 5},
	}
	assert.True(t, service.WouldCycle(looped, 7, 5))
}

func TestUpdateCategoryRejectsReparentCycle(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	svc := service.NewCategory(models.NewCategory(db, zap.NewNop()), zap.NewNop())

	categoryRows := sqlmock.NewRows([]string{"id", "name", "slug", "parent_id", "level"}).
		AddRow(int64(1), "General", "general", nil, 1)
	mock.ExpectQuery(`SELECT (.+) FROM "categories"`).WillReturnRows(categoryRows)

	treeRows := sqlmock.NewRows([]string{"id", "name", "slug", "parent_id", "level"}).
		AddRow(int64(1), "General", "general", nil, 1).
		AddRow(int64(2), "Help", "help", int64(1), 2)
	mock.ExpectQuery(`SELECT (.+) FROM "categories"`).WillReturnRows(treeRows)

	parentID := int64(2)
	_, err := svc.Update(t.Context(), enum.UserRoleAdmin, 1, service.UpdateCategoryParams{
		Name:     "General",
		ParentID: &parentID,
	})
	require.ErrorIs(t, err, types.ErrCategoryCycle)
	require.NoError(t, mock.ExpectationsWereMet())
}
