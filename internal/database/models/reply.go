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

// ReplyModel handles database operations for replies and their edit history.
type ReplyModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReply creates a new reply model.
func NewReply(db *bun.DB, logger *zap.Logger) *ReplyModel {
	return &ReplyModel{
		db:     db,
		logger: logger.Named("db_reply"),
	}
}

// CreateReply inserts a new reply on the given executor and fills in
// its generated ID. Runs on the caller's transaction so the insert and
// the topic recount commit or roll back together.
func (r *ReplyModel) CreateReply(ctx context.Context, db bun.IDB, reply *types.Reply) error {
	reply.CreatedAt = time.Now()

	if _, err := db.NewInsert().Model(reply).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}

	return nil
}

// GetReplyByID retrieves a reply by ID, including soft-deleted ones.
func (r *ReplyModel) GetReplyByID(ctx context.Context, id int64) (*types.Reply, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Reply, error) {
		var reply types.Reply
		err := r.db.NewSelect().
			Model(&reply).
			Where("id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrReplyNotFound
			}
			return nil, fmt.Errorf("failed to get reply: %w", err)
		}
		return &reply, nil
	})
}

// GetTopicReplies retrieves all replies of a topic in the requested order.
// Tree assembly happens in the service layer.
func (r *ReplyModel) GetTopicReplies(ctx context.Context, topicID int64, sort enum.ReplySort) ([]*types.Reply, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Reply, error) {
		var replies []*types.Reply
		q := r.db.NewSelect().
			Model(&replies).
			Where("topic_id = ?", topicID)

		switch sort {
		case enum.ReplySortNewest:
			q = q.Order("created_at DESC", "id DESC")
		case enum.ReplySortTop:
			q = q.Order("vote_score DESC", "id ASC")
		default:
			q = q.Order("created_at ASC", "id ASC")
		}

		if err := q.Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to get topic replies: %w", err)
		}
		return replies, nil
	})
}

// ListByAuthor retrieves a page of an author's replies, newest first.
func (r *ReplyModel) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*types.Reply, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Reply, error) {
		var replies []*types.Reply
		err := r.db.NewSelect().
			Model(&replies).
			Where("author_id = ?", authorID).
			Where("is_deleted = false").
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list replies by author: %w", err)
		}
		return replies, nil
	})
}

// UpdateContent applies an edit to a reply inside the caller's transaction.
func (r *ReplyModel) UpdateContent(ctx context.Context, db bun.IDB, id int64, content string, editedAt time.Time) error {
	_, err := db.NewUpdate().
		Model((*types.Reply)(nil)).
		Set("content = ?", content).
		Set("edited_at = ?", editedAt).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update reply content: %w", err)
	}

	return nil
}

// InsertEdit appends an immutable edit-history snapshot.
func (r *ReplyModel) InsertEdit(ctx context.Context, db bun.IDB, edit *types.ReplyEdit) error {
	if _, err := db.NewInsert().Model(edit).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert reply edit: %w", err)
	}

	return nil
}

// ListEdits retrieves a reply's edit history, oldest first.
func (r *ReplyModel) ListEdits(ctx context.Context, replyID int64) ([]*types.ReplyEdit, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ReplyEdit, error) {
		var edits []*types.ReplyEdit
		err := r.db.NewSelect().
			Model(&edits).
			Where("reply_id = ?", replyID).
			Order("edited_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reply edits: %w", err)
		}
		return edits, nil
	})
}

// SoftDelete marks a reply as deleted without removing the row.
func (r *ReplyModel) SoftDelete(ctx context.Context, id int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewUpdate().
			Model((*types.Reply)(nil)).
			Set("is_deleted = true").
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to soft delete reply: %w", err)
	}

	return nil
}

// MoveToTopic reassigns all replies of one topic to another.
// Used by topic merges; runs inside the merge transaction.
func (r *ReplyModel) MoveToTopic(ctx context.Context, db bun.IDB, sourceTopicID, targetTopicID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Reply)(nil)).
		Set("topic_id = ?", targetTopicID).
		Where("topic_id = ?", sourceTopicID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to move replies: %w", err)
	}

	return nil
}

// ClearAccepted unmarks every accepted reply of a topic.
func (r *ReplyModel) ClearAccepted(ctx context.Context, db bun.IDB, topicID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Reply)(nil)).
		Set("is_accepted = false").
		Where("topic_id = ?", topicID).
		Where("is_accepted = true").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear accepted replies: %w", err)
	}

	return nil
}

// SetAccepted marks a single reply as the accepted answer.
func (r *ReplyModel) SetAccepted(ctx context.Context, db bun.IDB, replyID int64) error {
	_, err := db.NewUpdate().
		Model((*types.Reply)(nil)).
		Set("is_accepted = true").
		Where("id = ?", replyID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set accepted reply: %w", err)
	}

	return nil
}

// UpdateVoteCounts persists a freshly recomputed vote tally onto the reply row.
func (r *ReplyModel) UpdateVoteCounts(ctx context.Context, db bun.IDB, id int64, counts types.VoteCounts) error {
	_, err := db.NewUpdate().
		Model((*types.Reply)(nil)).
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

// DeleteByTopic permanently removes all replies of a topic, returning the
// IDs of the removed rows so dependent vote rows can be cleaned up.
func (r *ReplyModel) DeleteByTopic(ctx context.Context, db bun.IDB, topicID int64) ([]int64, error) {
	var ids []int64
	err := db.NewDelete().
		Model((*types.Reply)(nil)).
		Where("topic_id = ?", topicID).
		Returning("id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to delete replies by topic: %w", err)
	}

	return ids, nil
}

// CountAcceptedByAuthor counts how many of an author's replies are accepted answers.
func (r *ReplyModel) CountAcceptedByAuthor(ctx context.Context, authorID int64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Reply)(nil)).
			Where("author_id = ?", authorID).
			Where("is_accepted = true").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count accepted replies: %w", err)
		}
		return count, nil
	})
}
