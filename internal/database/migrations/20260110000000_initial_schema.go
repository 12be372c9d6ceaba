package migrations

import (
	"context"
	"fmt"

	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.User)(nil),
			(*types.Category)(nil),
			(*types.CategoryModerator)(nil),
			(*types.Topic)(nil),
			(*types.Reply)(nil),
			(*types.ReplyEdit)(nil),
			(*types.TopicVote)(nil),
			(*types.ReplyVote)(nil),
			(*types.ReputationEntry)(nil),
			(*types.ModerationLog)(nil),
			(*types.UserWarning)(nil),
			(*types.Report)(nil),
			(*types.Poll)(nil),
			(*types.PollOption)(nil),
			(*types.PollVote)(nil),
			(*types.Badge)(nil),
			(*types.UserBadge)(nil),
			(*types.Notification)(nil),
			(*types.NotificationPrefs)(nil),
			(*types.SearchRecord)(nil),
			(*types.SavedSearch)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		// Generated tsvector columns drive full-text search over topics
		// and replies. Title matches weigh heavier than body matches.
		_, err := db.NewRaw(`
			ALTER TABLE topics ADD COLUMN IF NOT EXISTS search_vector tsvector
			GENERATED ALWAYS AS (
				setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
				setweight(to_tsvector('english', coalesce(content, '')), 'B')
			) STORED;

			ALTER TABLE replies ADD COLUMN IF NOT EXISTS search_vector tsvector
			GENERATED ALWAYS AS (to_tsvector('english', coalesce(content, ''))) STORED;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add search vector columns: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{
			"saved_searches", "search_records", "notification_prefs", "notifications",
			"user_badges", "badges", "poll_votes", "poll_options", "polls",
			"reports", "user_warnings", "moderation_logs", "reputation_entries",
			"reply_votes", "topic_votes", "reply_edits", "replies", "topics",
			"category_moderators", "categories", "users",
		}

		for _, table := range tables {
			_, err := db.NewRaw(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
