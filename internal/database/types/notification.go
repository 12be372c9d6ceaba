package types

import (
	"errors"
	"time"

	"github.com/agorahq/agora/internal/database/types/enum"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidDNDWindow     = errors.New("do-not-disturb hours must be between 0 and 23")
)

// BundleWindow is how long repeated events with the same bundle key
// coalesce into one notification instead of creating a new row.
const BundleWindow = 24 * time.Hour

// Notification is one entry in a user's inbox. Repeated similar events
// increment BundleCount on the existing row instead of adding rows.
type Notification struct {
	ID          int64                 `bun:",pk,autoincrement"      json:"id"`
	RecipientID int64                 `bun:",notnull"               json:"recipientId"`
	ActorID     int64                 `bun:",nullzero"              json:"actorId,omitempty"`
	Type        enum.NotificationType `bun:",notnull"               json:"type"`
	TargetType  enum.TargetType       `bun:",nullzero"              json:"targetType,omitempty"`
	TargetID    int64                 `bun:",nullzero"              json:"targetId,omitempty"`
	BundleKey   string                `bun:",notnull"               json:"-"`
	BundleCount int                   `bun:",notnull,default:1"     json:"bundleCount"`
	Message     string                `bun:",notnull"               json:"message"`
	IsRead      bool                  `bun:",notnull,default:false" json:"isRead"`
	DeliveredAt time.Time             `bun:",nullzero"              json:"deliveredAt"`
	CreatedAt   time.Time             `bun:",notnull"               json:"createdAt"`
	UpdatedAt   time.Time             `bun:",notnull"               json:"updatedAt"`
}

// NotificationPrefs holds a user's per-type switches and do-not-disturb window.
type NotificationPrefs struct {
	UserID        int64           `bun:",pk"                    json:"userId"`
	DisabledTypes []string        `bun:",array"                 json:"disabledTypes"`
	DNDEnabled    bool            `bun:"dnd_enabled,notnull,default:false" json:"dndEnabled"`
	DNDStartHour  int             `bun:"dnd_start_hour,notnull,default:0"  json:"dndStartHour"`
	DNDEndHour    int             `bun:"dnd_end_hour,notnull,default:0"    json:"dndEndHour"`
	UpdatedAt     time.Time       `bun:",notnull"               json:"updatedAt"`
}

// TypeDisabled reports whether the user muted the given notification type.
func (p *NotificationPrefs) TypeDisabled(t enum.NotificationType) bool {
	for _, disabled := range p.DisabledTypes {
		if disabled == string(t) {
			return true
		}
	}
	return false
}
