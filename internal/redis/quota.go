package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// VoteQuotaPrefix namespaces daily vote counters in Redis.
	VoteQuotaPrefix = "vote_quota:"

	// VoteQuotaTTL keeps counters around past the UTC day boundary so a
	// quota check never races with key expiry.
	VoteQuotaTTL = 48 * time.Hour
)

// VoteQuotaStore counts votes cast per user per UTC day. The key rolls
// over at midnight UTC, which is what resets the daily quota.
type VoteQuotaStore struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewVoteQuotaStore creates a vote quota store backed by the quota database.
func NewVoteQuotaStore(manager *Manager, logger *zap.Logger) (*VoteQuotaStore, error) {
	client, err := manager.GetClient(QuotaDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis client: %w", err)
	}

	return &VoteQuotaStore{
		client: client,
		logger: logger.Named("vote_quota"),
	}, nil
}

func quotaKey(userID int64, now time.Time) string {
	return fmt.Sprintf("%s%d:%s", VoteQuotaPrefix, userID, now.UTC().Format("2006-01-02"))
}

// Count returns how many votes the user has cast today.
func (s *VoteQuotaStore) Count(ctx context.Context, userID int64) (int, error) {
	key := quotaKey(userID, time.Now())

	count, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsInt64()
	if err != nil {
		if errors.Is(err, rueidis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get vote quota: %w", err)
	}

	return int(count), nil
}

// Increment records one cast vote and returns the new count.
func (s *VoteQuotaStore) Increment(ctx context.Context, userID int64) (int, error) {
	key := quotaKey(userID, time.Now())

	count, err := s.client.Do(ctx, s.client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment vote quota: %w", err)
	}

	// Refresh expiry on every write; the key only needs to outlive its day
	if err := s.client.Do(ctx,
		s.client.B().Expire().Key(key).Seconds(int64(VoteQuotaTTL.Seconds())).Build(),
	).Error(); err != nil {
		s.logger.Warn("Failed to set vote quota expiry",
			zap.String("key", key),
			zap.Error(err))
	}

	return int(count), nil
}
