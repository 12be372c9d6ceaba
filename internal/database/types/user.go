package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserBanned    = errors.New("user is banned")
	ErrUserSuspended = errors.New("user is suspended")
)

// User is the minimal identity record the forum needs. Authentication
// happens upstream; sessions only resolve to a row in this table.
type User struct {
	ID             int64         `bun:",pk,autoincrement"      json:"id"`
	Username       string        `bun:",notnull,unique"        json:"username"`
	DisplayName    string        `bun:",notnull"               json:"displayName"`
	Role           enum.UserRole `bun:",notnull"               json:"role"`
	IsBanned       bool          `bun:",notnull,default:false" json:"isBanned"`
	SuspendedUntil time.Time     `bun:",nullzero"              json:"suspendedUntil"`
	CreatedAt      time.Time     `bun:",notnull"               json:"createdAt"`
}

// Suspended reports whether the user is currently suspended.
func (u *User) Suspended(now time.Time) bool {
	return !u.SuspendedUntil.IsZero() && now.Before(u.SuspendedUntil)
}
