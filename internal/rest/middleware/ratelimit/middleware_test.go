package ratelimit

import (
	"testing"

	"github.com/agorahq/agora/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestMiddleware(t *testing.T, cfg config.RateLimit) *Middleware {
	t.Helper()
	return New(&cfg, zap.NewNop())
}

func TestCheckRateLimitAllowsWithinBurst(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         3,
		StrikeLimit:       5,
		BlockDuration:     60,
	})

	for range 3 {
		allowed, _, _ := m.checkRateLimit("10.0.0.1")
		assert.True(t, allowed)
	}

	// Burst exhausted
	allowed, _, msg := m.checkRateLimit("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, errRateLimit, msg)
}

func TestCheckRateLimitIsolatesClients(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         1,
		StrikeLimit:       5,
		BlockDuration:     60,
	})

	allowed, _, _ := m.checkRateLimit("10.0.0.1")
	assert.True(t, allowed)

	allowed, _, _ = m.checkRateLimit("10.0.0.1")
	assert.False(t, allowed)

	// A different client still has its own budget
	allowed, _, _ = m.checkRateLimit("10.0.0.2")
	assert.True(t, allowed)
}

func TestCheckRateLimitBlocksAfterStrikes(t *testing.T) {
	t.Parallel()

	m := newTestMiddleware(t, config.RateLimit{
		RequestsPerSecond: 1,
		BurstSize:         1,
		StrikeLimit:       2,
		BlockDuration:     60,
	})

	allowed, _, _ := m.checkRateLimit("10.0.0.1")
	assert.True(t, allowed)

	// First violation is a strike
	allowed, _, msg := m.checkRateLimit("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, errRateLimit, msg)

	// Second violation hits the strike limit and blocks the client
	allowed, retryAfter, msg := m.checkRateLimit("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, errBlocked, msg)
	assert.Positive(t, retryAfter)

	// Further requests stay blocked until the window passes
	allowed, _, msg = m.checkRateLimit("10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, errBlocked, msg)
}
