package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Category browsing indexes
			CREATE INDEX IF NOT EXISTS idx_categories_parent_order
			ON categories (parent_id, display_order);

			-- Topic listing indexes: every sort keys on a counter with
			-- (created_at, id) as the keyset tiebreaker
			CREATE INDEX IF NOT EXISTS idx_topics_category_time
			ON topics (category_id, created_at DESC, id DESC);

			CREATE INDEX IF NOT EXISTS idx_topics_author_time
			ON topics (author_id, created_at DESC, id DESC);

			CREATE INDEX IF NOT EXISTS idx_topics_score
			ON topics (vote_score DESC, created_at DESC, id DESC)
			WHERE status = 'active' AND is_draft = false;

			CREATE INDEX IF NOT EXISTS idx_topics_views
			ON topics (view_count DESC, created_at DESC, id DESC)
			WHERE status = 'active' AND is_draft = false;

			CREATE INDEX IF NOT EXISTS idx_topics_tags
			ON topics USING GIN (tags);

			CREATE INDEX IF NOT EXISTS idx_topics_search
			ON topics USING GIN (search_vector);

			-- Reply thread indexes
			CREATE INDEX IF NOT EXISTS idx_replies_topic_time
			ON replies (topic_id, created_at ASC, id ASC);

			CREATE INDEX IF NOT EXISTS idx_replies_author_time
			ON replies (author_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_replies_parent
			ON replies (parent_reply_id)
			WHERE parent_reply_id IS NOT NULL;

			CREATE INDEX IF NOT EXISTS idx_replies_search
			ON replies USING GIN (search_vector);

			-- Reputation ledger index
			CREATE INDEX IF NOT EXISTS idx_reputation_entries_user_time
			ON reputation_entries (user_id, created_at DESC, id DESC);

			-- Moderation audit indexes
			CREATE INDEX IF NOT EXISTS idx_moderation_logs_moderator_time
			ON moderation_logs (moderator_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_moderation_logs_target
			ON moderation_logs (target_type, target_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_user_warnings_user_time
			ON user_warnings (user_id, created_at DESC);

			-- Report queue indexes
			CREATE INDEX IF NOT EXISTS idx_reports_status_time
			ON reports (status, created_at ASC);

			CREATE INDEX IF NOT EXISTS idx_reports_target
			ON reports (reportable_type, reportable_id, created_at DESC);

			-- Notification inbox indexes
			CREATE INDEX IF NOT EXISTS idx_notifications_recipient_time
			ON notifications (recipient_id, created_at DESC, id DESC);

			CREATE INDEX IF NOT EXISTS idx_notifications_unread
			ON notifications (recipient_id, bundle_key, created_at DESC)
			WHERE is_read = false;

			-- Search history index
			CREATE INDEX IF NOT EXISTS idx_search_records_user_time
			ON search_records (user_id, created_at DESC, id DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_categories_parent_order;
			DROP INDEX IF EXISTS idx_topics_category_time;
			DROP INDEX IF EXISTS idx_topics_author_time;
			DROP INDEX IF EXISTS idx_topics_score;
			DROP INDEX IF EXISTS idx_topics_views;
			DROP INDEX IF EXISTS idx_topics_tags;
			DROP INDEX IF EXISTS idx_topics_search;
			DROP INDEX IF EXISTS idx_replies_topic_time;
			DROP INDEX IF EXISTS idx_replies_author_time;
			DROP INDEX IF EXISTS idx_replies_parent;
			DROP INDEX IF EXISTS idx_replies_search;
			DROP INDEX IF EXISTS idx_reputation_entries_user_time;
			DROP INDEX IF EXISTS idx_moderation_logs_moderator_time;
			DROP INDEX IF EXISTS idx_moderation_logs_target;
			DROP INDEX IF EXISTS idx_user_warnings_user_time;
			DROP INDEX IF EXISTS idx_reports_status_time;
			DROP INDEX IF EXISTS idx_reports_target;
			DROP INDEX IF EXISTS idx_notifications_recipient_time;
			DROP INDEX IF EXISTS idx_notifications_unread;
			DROP INDEX IF EXISTS idx_search_records_user_time;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
