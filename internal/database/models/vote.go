package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/dbretry"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for topic and reply votes.
// A missing row means "no vote"; value zero is never stored.
type VoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVote creates a new vote model.
func NewVote(db *bun.DB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// GetTopicVote retrieves a user's vote on a topic, or nil if they have none.
func (r *VoteModel) GetTopicVote(ctx context.Context, topicID, userID int64) (*types.TopicVote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.TopicVote, error) {
		var vote types.TopicVote
		err := r.db.NewSelect().
			Model(&vote).
			Where("topic_id = ?", topicID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get topic vote: %w", err)
		}
		return &vote, nil
	})
}

// UpsertTopicVote stores a nonzero vote, replacing any previous value.
func (r *VoteModel) UpsertTopicVote(ctx context.Context, db bun.IDB, vote *types.TopicVote) error {
	vote.CreatedAt = time.Now()

	_, err := db.NewInsert().
		Model(vote).
		On("CONFLICT (topic_id, user_id) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert topic vote: %w", err)
	}

	return nil
}

// DeleteTopicVote removes a user's vote row from a topic.
func (r *VoteModel) DeleteTopicVote(ctx context.Context, db bun.IDB, topicID, userID int64) error {
	_, err := db.NewDelete().
		Model((*types.TopicVote)(nil)).
		Where("topic_id = ?", topicID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete topic vote: %w", err)
	}

	return nil
}

// CountTopicVotes recomputes the authoritative tally for a topic.
func (r *VoteModel) CountTopicVotes(ctx context.Context, db bun.IDB, topicID int64) (types.VoteCounts, error) {
	var counts types.VoteCounts
	err := db.NewSelect().
		Model((*types.TopicVote)(nil)).
		ColumnExpr("count(*) FILTER (WHERE value = 1) AS upvotes").
		ColumnExpr("count(*) FILTER (WHERE value = -1) AS downvotes").
		Where("topic_id = ?", topicID).
		Scan(ctx, &counts)
	if err != nil {
		return types.VoteCounts{}, fmt.Errorf("failed to count topic votes: %w", err)
	}

	return counts, nil
}

// GetReplyVote retrieves a user's vote on a reply, or nil if they have none.
func (r *VoteModel) GetReplyVote(ctx context.Context, replyID, userID int64) (*types.ReplyVote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ReplyVote, error) {
		var vote types.ReplyVote
		err := r.db.NewSelect().
			Model(&vote).
			Where("reply_id = ?", replyID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get reply vote: %w", err)
		}
		return &vote, nil
	})
}

// UpsertReplyVote stores a nonzero vote, replacing any previous value.
func (r *VoteModel) UpsertReplyVote(ctx context.Context, db bun.IDB, vote *types.ReplyVote) error {
	vote.CreatedAt = time.Now()

	_, err := db.NewInsert().
		Model(vote).
		On("CONFLICT (reply_id, user_id) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert reply vote: %w", err)
	}

	return nil
}

// DeleteReplyVote removes a user's vote row from a reply.
func (r *VoteModel) DeleteReplyVote(ctx context.Context, db bun.IDB, replyID, userID int64) error {
	_, err := db.NewDelete().
		Model((*types.ReplyVote)(nil)).
		Where("reply_id = ?", replyID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete reply vote: %w", err)
	}

	return nil
}

// CountReplyVotes recomputes the authoritative tally for a reply.
func (r *VoteModel) CountReplyVotes(ctx context.Context, db bun.IDB, replyID int64) (types.VoteCounts, error) {
	var counts types.VoteCounts
	err := db.NewSelect().
		Model((*types.ReplyVote)(nil)).
		ColumnExpr("count(*) FILTER (WHERE value = 1) AS upvotes").
		ColumnExpr("count(*) FILTER (WHERE value = -1) AS downvotes").
		Where("reply_id = ?", replyID).
		Scan(ctx, &counts)
	if err != nil {
		return types.VoteCounts{}, fmt.Errorf("failed to count reply votes: %w", err)
	}

	return counts, nil
}

// ListUserVotes retrieves a page of a user's votes across both target kinds,
// newest first.
func (r *VoteModel) ListUserVotes(ctx context.Context, userID int64, limit, offset int) ([]*types.UserVoteRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.UserVoteRecord, error) {
		var records []*types.UserVoteRecord
		err := r.db.NewRaw(`
			SELECT 'topic' AS target_type, topic_id AS target_id, value, created_at
			FROM topic_votes WHERE user_id = ?
			UNION ALL
			SELECT 'reply' AS target_type, reply_id AS target_id, value, created_at
			FROM reply_votes WHERE user_id = ?
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?`,
			userID, userID, limit, offset).
			Scan(ctx, &records)
		if err != nil {
			return nil, fmt.Errorf("failed to list user votes: %w", err)
		}
		return records, nil
	})
}

// DeleteVotesByTopic removes all vote rows belonging to a topic and the
// given replies. Used by hard deletes; runs inside the delete transaction.
func (r *VoteModel) DeleteVotesByTopic(ctx context.Context, db bun.IDB, topicID int64, replyIDs []int64) error {
	_, err := db.NewDelete().
		Model((*types.TopicVote)(nil)).
		Where("topic_id = ?", topicID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete topic votes: %w", err)
	}

	if len(replyIDs) > 0 {
		_, err = db.NewDelete().
			Model((*types.ReplyVote)(nil)).
			Where("reply_id IN (?)", bun.In(replyIDs)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete reply votes: %w", err)
		}
	}

	return nil
}

// CountUpvotesReceived counts the upvotes currently standing on all of an
// author's topics and replies.
func (r *VoteModel) CountUpvotesReceived(ctx context.Context, authorID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		var count int
		err := r.db.NewRaw(`
			SELECT
				(SELECT count(*) FROM topic_votes tv JOIN topics t ON t.id = tv.topic_id
					WHERE t.author_id = ? AND tv.value = 1) +
				(SELECT count(*) FROM reply_votes rv JOIN replies rp ON rp.id = rv.reply_id
					WHERE rp.author_id = ? AND rv.value = 1)`,
			authorID, authorID).
			Scan(ctx, &count)
		if err != nil {
			return 0, fmt.Errorf("failed to count upvotes received: %w", err)
		}
		return count, nil
	})
}
