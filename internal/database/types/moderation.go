package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrNotModerator      = errors.New("moderator access required")
	ErrNotAdmin          = errors.New("admin access required")
	ErrTargetIsAdmin     = errors.New("cannot moderate an admin")
	ErrTargetIsModerator = errors.New("cannot moderate another moderator")
	ErrReasonTooShort    = errors.New("reason must be at least 10 characters")
	ErrSuspensionLength  = errors.New("suspension must be between 1 and 365 days")
)

// ModerationLog is a write-once audit entry for a moderation action.
// Rows are never updated or deleted.
type ModerationLog struct {
	ID          int64                 `bun:",pk,autoincrement" json:"id"`
	ModeratorID int64                 `bun:",notnull"          json:"moderatorId"`
	Action      enum.ModerationAction `bun:",notnull"          json:"action"`
	TargetType  enum.TargetType       `bun:",notnull"          json:"targetType"`
	TargetID    int64                 `bun:",notnull"          json:"targetId"`
	Reason      string                `bun:",nullzero"         json:"reason,omitempty"`
	Metadata    []byte                `bun:",nullzero,type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time             `bun:",notnull"          json:"createdAt"`
}

// ModerationLogFilter narrows an audit trail listing.
type ModerationLogFilter struct {
	ModeratorID int64
	Action      enum.ModerationAction
	TargetType  enum.TargetType
	TargetID    int64
	Since       time.Time
	Until       time.Time
}

// UserWarning records a formal warning issued to a user.
type UserWarning struct {
	ID          int64     `bun:",pk,autoincrement" json:"id"`
	UserID      int64     `bun:",notnull"          json:"userId"`
	ModeratorID int64     `bun:",notnull"          json:"moderatorId"`
	Reason      string    `bun:",notnull"          json:"reason"`
	CreatedAt   time.Time `bun:",notnull"          json:"createdAt"`
}
