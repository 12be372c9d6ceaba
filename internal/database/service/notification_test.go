package service_test

import (
	"testing"
	"time"

	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestBundleKey(t *testing.T) {
	t.Parallel()

	key := service.BundleKey(enum.NotificationTypeReplyToTopic, enum.TargetTypeTopic, 42)
	assert.Equal(t, "reply_to_topic:topic:42", key)

	// Different targets never collide
	other := service.BundleKey(enum.NotificationTypeReplyToTopic, enum.TargetTypeTopic, 43)
	assert.NotEqual(t, key, other)
}

func TestInDNDWindow(t *testing.T) {
	t.Parallel()

	at := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
	}

	// Disabled preferences never match
	disabled := &types.NotificationPrefs{DNDEnabled: false, DNDStartHour: 0, DNDEndHour: 23}
	assert.False(t, service.InDNDWindow(disabled, at(12)))

	// Simple daytime window
	day := &types.NotificationPrefs{DNDEnabled: true, DNDStartHour: 9, DNDEndHour: 17}
	assert.False(t, service.InDNDWindow(day, at(8)))
	assert.True(t, service.InDNDWindow(day, at(9)))
	assert.True(t, service.InDNDWindow(day, at(16)))
	assert.False(t, service.InDNDWindow(day, at(17)))

	// Window wrapping past midnight
	night := &types.NotificationPrefs{DNDEnabled: true, DNDStartHour: 22, DNDEndHour: 7}
	assert.True(t, service.InDNDWindow(night, at(23)))
	assert.True(t, service.InDNDWindow(night, at(3)))
	assert.False(t, service.InDNDWindow(night, at(7)))
	assert.False(t, service.InDNDWindow(night, at(12)))

	// Equal start and end means no window at all
	degenerate := &types.NotificationPrefs{DNDEnabled: true, DNDStartHour: 5, DNDEndHour: 5}
	assert.False(t, service.InDNDWindow(degenerate, at(5)))
}
