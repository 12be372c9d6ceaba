package service_test

import (
	"testing"

	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestCheckEscalation(t *testing.T) {
	t.Parallel()

	user := &types.User{ID: 1, Role: enum.UserRoleUser}
	moderator := &types.User{ID: 2, Role: enum.UserRoleModerator}
	otherModerator := &types.User{ID: 3, Role: enum.UserRoleModerator}
	admin := &types.User{ID: 4, Role: enum.UserRoleAdmin}

	tests := []struct {
		name     string
		actor    *types.User
		target   *types.User
		action   enum.ModerationAction
		expected error
	}{
		{"moderator warns user", moderator, user, enum.ModerationActionWarnUser, nil},
		{"moderator suspends user", moderator, user, enum.ModerationActionSuspendUser, nil},
		{"moderator warns moderator", moderator, otherModerator, enum.ModerationActionWarnUser, types.ErrTargetIsModerator},
		{"admin warns moderator", admin, otherModerator, enum.ModerationActionWarnUser, nil},
		{"nobody touches admins", admin, admin, enum.ModerationActionWarnUser, types.ErrTargetIsAdmin},
		{"moderator cannot ban", moderator, user, enum.ModerationActionBanUser, types.ErrNotAdmin},
		{"admin bans user", admin, user, enum.ModerationActionBanUser, nil},
		{"moderator cannot unban", moderator, user, enum.ModerationActionUnbanUser, types.ErrNotAdmin},
		{"admin unbans user", admin, user, enum.ModerationActionUnbanUser, nil},
		{"user cannot warn", user, user, enum.ModerationActionWarnUser, types.ErrNotModerator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := service.CheckEscalation(tt.actor, tt.target, tt.action)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}
