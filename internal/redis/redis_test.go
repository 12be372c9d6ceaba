package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	t.Helper()

	// Start miniredis server
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Create Redis client
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestVoteQuotaStore(t *testing.T) {
	t.Parallel()

	_, client := setupTest(t)
	store := &VoteQuotaStore{client: client, logger: zap.NewNop()}
	ctx := t.Context()

	// No votes cast yet
	count, err := store.Count(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Each increment bumps the counter
	count, err = store.Increment(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.Increment(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.Count(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Counters are per user
	count, err = store.Count(ctx, 8)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVoteQuotaStoreKeyRollsOverDaily(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC)

	assert.NotEqual(t, quotaKey(7, day1), quotaKey(7, day2))
	assert.Equal(t, quotaKey(7, day1), quotaKey(7, day1.Add(-time.Hour)))
}

func TestViewStoreMark(t *testing.T) {
	t.Parallel()

	mr, client := setupTest(t)
	store := &ViewStore{client: client, logger: zap.NewNop()}
	ctx := t.Context()

	// First view within the window counts
	first, err := store.Mark(ctx, 42, "user:7")
	require.NoError(t, err)
	assert.True(t, first)

	// Repeat views are suppressed
	again, err := store.Mark(ctx, 42, "user:7")
	require.NoError(t, err)
	assert.False(t, again)

	// Different viewer or topic is independent
	other, err := store.Mark(ctx, 42, "user:8")
	require.NoError(t, err)
	assert.True(t, other)

	// After the window passes, the same viewer counts again
	mr.FastForward(ViewDedupWindow + time.Second)

	later, err := store.Mark(ctx, 42, "user:7")
	require.NoError(t, err)
	assert.True(t, later)
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	_, client := setupTest(t)
	store := &SessionStore{client: client, logger: zap.NewNop()}
	ctx := t.Context()

	// Create and resolve a session
	token, err := store.Create(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.UserID)

	// Unknown tokens miss
	_, err = store.Get(ctx, "bogus")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting invalidates the token
	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStoreExpiry(t *testing.T) {
	t.Parallel()

	mr, client := setupTest(t)
	store := &SessionStore{client: client, logger: zap.NewNop()}
	ctx := t.Context()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	// Sessions lapse after the TTL with no activity
	mr.FastForward(SessionTTL + time.Minute)

	_, err = store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
