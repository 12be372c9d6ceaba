package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		constraints := []struct {
			table string
			name  string
			def   string
		}{
			{"categories", "fk_categories_parent", "FOREIGN KEY (parent_id) REFERENCES categories (id) ON DELETE CASCADE"},
			{"category_moderators", "fk_category_moderators_category", "FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE CASCADE"},
			{"category_moderators", "fk_category_moderators_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"topics", "fk_topics_category", "FOREIGN KEY (category_id) REFERENCES categories (id)"},
			{"topics", "fk_topics_author", "FOREIGN KEY (author_id) REFERENCES users (id)"},
			{"replies", "fk_replies_topic", "FOREIGN KEY (topic_id) REFERENCES topics (id) ON DELETE CASCADE"},
			{"replies", "fk_replies_author", "FOREIGN KEY (author_id) REFERENCES users (id)"},
			{"reply_edits", "fk_reply_edits_reply", "FOREIGN KEY (reply_id) REFERENCES replies (id) ON DELETE CASCADE"},
			{"topic_votes", "fk_topic_votes_topic", "FOREIGN KEY (topic_id) REFERENCES topics (id) ON DELETE CASCADE"},
			{"topic_votes", "fk_topic_votes_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"reply_votes", "fk_reply_votes_reply", "FOREIGN KEY (reply_id) REFERENCES replies (id) ON DELETE CASCADE"},
			{"reply_votes", "fk_reply_votes_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"reputation_entries", "fk_reputation_entries_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"user_warnings", "fk_user_warnings_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"reports", "fk_reports_reporter", "FOREIGN KEY (reporter_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"polls", "fk_polls_topic", "FOREIGN KEY (topic_id) REFERENCES topics (id) ON DELETE CASCADE"},
			{"poll_options", "fk_poll_options_poll", "FOREIGN KEY (poll_id) REFERENCES polls (id) ON DELETE CASCADE"},
			{"poll_votes", "fk_poll_votes_poll", "FOREIGN KEY (poll_id) REFERENCES polls (id) ON DELETE CASCADE"},
			{"poll_votes", "fk_poll_votes_option", "FOREIGN KEY (option_id) REFERENCES poll_options (id) ON DELETE CASCADE"},
			{"user_badges", "fk_user_badges_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"user_badges", "fk_user_badges_badge", "FOREIGN KEY (badge_id) REFERENCES badges (id) ON DELETE CASCADE"},
			{"notifications", "fk_notifications_recipient", "FOREIGN KEY (recipient_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"notification_prefs", "fk_notification_prefs_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"search_records", "fk_search_records_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
			{"saved_searches", "fk_saved_searches_user", "FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE"},
		}

		for _, c := range constraints {
			_, err := db.NewRaw(fmt.Sprintf(`
				DO $$ BEGIN
					ALTER TABLE %s ADD CONSTRAINT %s %s;
				EXCEPTION
					WHEN duplicate_object THEN NULL;
				END $$
			`, c.table, c.name, c.def)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		// Constraints are dropped with their tables
		return nil
	})
}
