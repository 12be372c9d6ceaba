package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// ViewMarkerPrefix namespaces view dedupe markers in Redis.
	ViewMarkerPrefix = "topic_view:"

	// ViewDedupWindow is how long a viewer's mark suppresses further
	// view counts for the same topic.
	ViewDedupWindow = 30 * time.Minute
)

// ViewStore deduplicates topic views per viewer. A view counts only when
// the viewer has no marker for the topic within the dedup window.
type ViewStore struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewViewStore creates a view dedupe store backed by the view database.
func NewViewStore(manager *Manager, logger *zap.Logger) (*ViewStore, error) {
	client, err := manager.GetClient(ViewDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis client: %w", err)
	}

	return &ViewStore{
		client: client,
		logger: logger.Named("view_store"),
	}, nil
}

// Mark records a view and reports whether it is the viewer's first for
// this topic within the dedup window.
func (s *ViewStore) Mark(ctx context.Context, topicID int64, viewerKey string) (bool, error) {
	key := fmt.Sprintf("%s%d:%s", ViewMarkerPrefix, topicID, viewerKey)

	// SET NX EX is atomic: only the first viewer in the window wins
	err := s.client.Do(ctx, s.client.B().Set().Key(key).Value("1").Nx().
		Ex(ViewDedupWindow).Build()).Error()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to mark topic view: %w", err)
	}

	return true, nil
}
