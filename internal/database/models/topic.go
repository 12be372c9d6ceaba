package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// TopicListParams narrows and orders a topic listing.
type TopicListParams struct {
	CategoryID int64
	Type       enum.TopicType
	Tag        string
	AuthorID   int64
	Sort       enum.TopicSort
	Cursor     *types.TopicCursor
	Limit      int
}

// TopicModel handles database operations for topics.
type TopicModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewTopic creates a new topic model.
func NewTopic(db *bun.DB, logger *zap.Logger) *TopicModel {
	return &TopicModel{
		db:     db,
		logger: logger.Named("db_topic"),
	}
}

// CreateTopic inserts a new topic and fills in its generated ID.
func (r *TopicModel) CreateTopic(ctx context.Context, topic *types.Topic) error {
	now := time.Now()
	topic.CreatedAt = now
	topic.UpdatedAt = now

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(topic).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}

	return nil
}

// GetTopicByID retrieves a topic by ID, regardless of status.
func (r *TopicModel) GetTopicByID(ctx context.Context, id int64) (*types.Topic, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Topic, error) {
		var topic types.Topic
		err := r.db.NewSelect().
			Model(&topic).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrTopicNotFound
			}
			return nil, fmt.Errorf("failed to get topic: %w", err)
		}
		return &topic, nil
	})
}

// GetTopicBySlug retrieves a topic by its unique slug.
func (r *TopicModel) GetTopicBySlug(ctx context.Context, slug string) (*types.Topic, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Topic, error) {
		var topic types.Topic
		err := r.db.NewSelect().
			Model(&topic).
			Where("slug = ?", slug).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrTopicNotFound
			}
			return nil, fmt.Errorf("failed to get topic by slug: %w", err)
		}
		return &topic, nil
	})
}

// SlugExists reports whether a topic already uses the given slug.
func (r *TopicModel) SlugExists(ctx context.Context, slug string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := r.db.NewSelect().
			Model((*types.Topic)(nil)).
			Where("slug = ?", slug).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check slug: %w", err)
		}
		return exists, nil
	})
}

// ListTopics retrieves a page of published topics using keyset pagination.
// Returns the page and the cursor for the next page, if any.
func (r *TopicModel) ListTopics(ctx context.Context, params TopicListParams) ([]*types.Topic, *types.TopicCursor, error) {
	topics, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Topic, error) {
		var topics []*types.Topic
		q := r.db.NewSelect().
			Model(&topics).
			Where("status = 'active'").
			Where("is_draft = false").
			Limit(params.Limit + 1)

		if params.CategoryID != 0 {
			q = q.Where("category_id = ?", params.CategoryID)
		}
		if params.Type != "" {
			q = q.Where("type = ?", params.Type)
		}
		if params.Tag != "" {
			q = q.Where("? = ANY(tags)", params.Tag)
		}
		if params.AuthorID != 0 {
			q = q.Where("author_id = ?", params.AuthorID)
		}

		switch params.Sort {
		case enum.TopicSortTop:
			q = q.Order("vote_score DESC", "id DESC")
			if params.Cursor != nil {
				q = q.Where("(vote_score, id) < (?, ?)", params.Cursor.Score, params.Cursor.ID)
			}
		case enum.TopicSortViews:
			q = q.Order("view_count DESC", "id DESC")
			if params.Cursor != nil {
				q = q.Where("(view_count, id) < (?, ?)", params.Cursor.Views, params.Cursor.ID)
			}
		default:
			q = q.Order("created_at DESC", "id DESC")
			if params.Cursor != nil {
				q = q.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
			}
		}

		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to list topics: %w", err)
		}
		return topics, nil
	})
	if err != nil {
		return nil, nil, err
	}

	var next *types.TopicCursor
	if len(topics) > params.Limit {
		topics = topics[:params.Limit]
		last := topics[len(topics)-1]
		next = &types.TopicCursor{
			CreatedAt: last.CreatedAt,
			Score:     last.VoteScore,
			Views:     last.ViewCount,
			ID:        last.ID,
		}
	}

	return topics, next, nil
}

// ListDrafts retrieves an author's unpublished drafts, newest first.
func (r *TopicModel) ListDrafts(ctx context.Context, authorID int64) ([]*types.Topic, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Topic, error) {
		var topics []*types.Topic
		err := r.db.NewSelect().
			Model(&topics).
			Where("author_id = ?", authorID).
			Where("is_draft = true").
			Where("status = 'active'").
			Order("updated_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list drafts: %w", err)
		}
		return topics, nil
	})
}

// UpdateTopic persists edits to a topic's content fields.
func (r *TopicModel) UpdateTopic(ctx context.Context, topic *types.Topic) error {
	topic.UpdatedAt = time.Now()

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model(topic).
			Column("title", "content", "type", "tags", "attachments", "is_draft", "is_flagged", "updated_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	return nil
}

// SetPinned flips a topic's pinned flag.
func (r *TopicModel) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

// SetLocked flips a topic's locked flag.
func (r *TopicModel) SetLocked(ctx context.Context, id int64, locked bool) error {
	return r.setFlag(ctx, id, "is_locked", locked)
}

func (r *TopicModel) setFlag(ctx context.Context, id int64, column string, value bool) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Topic)(nil)).
			Set("? = ?", bun.Ident(column), value).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", column, err)
	}

	return nil
}

// MoveCategory reassigns a topic to another category.
func (r *TopicModel) MoveCategory(ctx context.Context, db bun.IDB, id, categoryID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Topic)(nil)).
		Set("category_id = ?", categoryID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to move topic: %w", err)
	}

	return nil
}

// ArchiveTopic soft-deletes a topic and resets its reply counter.
func (r *TopicModel) ArchiveTopic(ctx context.Context, db bun.IDB, id int64) error {
	_, err := db.NewUpdate().
		Model((*types.Topic)(nil)).
		Set("status = 'archived'").
		Set("reply_count = 0").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to archive topic: %w", err)
	}

	return nil
}

// HardDeleteTopic permanently removes a topic row. Dependent rows must be
// removed in the same transaction by the caller.
func (r *TopicModel) HardDeleteTopic(ctx context.Context, db bun.IDB, id int64) error {
	_, err := db.NewDelete().
		Model((*types.Topic)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to hard delete topic: %w", err)
	}

	return nil
}

// RecountReplies refreshes a topic's reply counter from the replies table.
func (r *TopicModel) RecountReplies(ctx context.Context, db bun.IDB, topicID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Topic)(nil)).
		Set("reply_count = (SELECT count(*) FROM replies WHERE topic_id = ? AND is_deleted = false)", topicID).
		Where("id = ?", topicID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to recount replies: %w", err)
	}

	return nil
}

// UpdateVoteCounts persists a freshly recomputed vote tally onto the topic row.
func (r *TopicModel) UpdateVoteCounts(ctx context.Context, db bun.IDB, id int64, counts types.VoteCounts) error {
	_, err := db.NewUpdate().
		Model((*types.Topic)(nil)).
		Set("upvote_count = ?", counts.Upvotes).
		Set("downvote_count = ?", counts.Downvotes).
		Set("vote_score = ?", counts.Score()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update vote counts: %w", err)
	}

	return nil
}

// SetAcceptedReply points a topic at its accepted answer, or clears the
// pointer when replyID is zero.
func (r *TopicModel) SetAcceptedReply(ctx context.Context, db bun.IDB, topicID, replyID int64) error {
	q := db.NewUpdate().
		Model((*types.Topic)(nil)).
		Where("id = ?", topicID)
	if replyID == 0 {
		q = q.Set("accepted_reply_id = NULL")
	} else {
		q = q.Set("accepted_reply_id = ?", replyID)
	}

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set accepted reply: %w", err)
	}

	return nil
}

// AddViewCount adds a batch of buffered view hits to a topic's counter.
func (r *TopicModel) AddViewCount(ctx context.Context, id int64, delta int) error {
	if delta <= 0 {
		return nil
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Topic)(nil)).
			Set("view_count = view_count + ?", delta).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add view count: %w", err)
	}

	return nil
}

// CountTopicsByAuthor counts an author's published topics.
func (r *TopicModel) CountTopicsByAuthor(ctx context.Context, authorID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Topic)(nil)).
			Where("author_id = ?", authorID).
			Where("is_draft = false").
			Where("status = 'active'").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count topics by author: %w", err)
		}
		return count, nil
	})
}
