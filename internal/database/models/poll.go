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

// PollModel handles database operations for polls, options and poll votes.
type PollModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPoll creates a new poll model.
func NewPoll(db *bun.DB, logger *zap.Logger) *PollModel {
	return &PollModel{
		db:     db,
		logger: logger.Named("db_poll"),
	}
}

// CreatePoll inserts a poll with its options in one transaction.
func (r *PollModel) CreatePoll(ctx context.Context, poll *types.Poll) error {
	poll.CreatedAt = time.Now()

	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(poll).Exec(ctx); err != nil {
			return err
		}

		for i, option := range poll.Options {
			option.PollID = poll.ID
			option.DisplayOrder = i
		}

		_, err := tx.NewInsert().Model(&poll.Options).Exec(ctx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrDuplicatePoll
		}
		return fmt.Errorf("failed to create poll: %w", err)
	}

	return nil
}

// ReplacePoll updates the poll row and swaps its option set in one
// transaction. Callers must have verified the poll has no votes yet,
// or the deleted options would orphan vote rows.
func (r *PollModel) ReplacePoll(ctx context.Context, poll *types.Poll) error {
	err := dbretry.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model(poll).
			Column("question", "deadline").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*types.PollOption)(nil)).
			Where("poll_id = ?", poll.ID).
			Exec(ctx); err != nil {
			return err
		}

		for i, option := range poll.Options {
			option.PollID = poll.ID
			option.DisplayOrder = i
		}

		_, err := tx.NewInsert().Model(&poll.Options).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to replace poll: %w", err)
	}

	return nil
}

// GetPollByTopic retrieves a topic's poll with its options, or
// ErrPollNotFound if the topic has none.
func (r *PollModel) GetPollByTopic(ctx context.Context, topicID int64) (*types.Poll, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Poll, error) {
		var poll types.Poll
		err := r.db.NewSelect().
			Model(&poll).
			Relation("Options", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("display_order ASC")
			}).
			Where("topic_id = ?", topicID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrPollNotFound
			}
			return nil, fmt.Errorf("failed to get poll: %w", err)
		}
		return &poll, nil
	})
}

// GetPollByID retrieves a poll with its options.
func (r *PollModel) GetPollByID(ctx context.Context, id int64) (*types.Poll, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Poll, error) {
		var poll types.Poll
		err := r.db.NewSelect().
			Model(&poll).
			Relation("Options", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Order("display_order ASC")
			}).
			Where("poll.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrPollNotFound
			}
			return nil, fmt.Errorf("failed to get poll: %w", err)
		}
		return &poll, nil
	})
}

// HasVotes reports whether anyone has voted in the poll yet.
func (r *PollModel) HasVotes(ctx context.Context, pollID int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := r.db.NewSelect().
			Model((*types.PollVote)(nil)).
			Where("poll_id = ?", pollID).
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check poll votes: %w", err)
		}
		return exists, nil
	})
}

// GetUserVotes retrieves the option rows a user picked in a poll.
func (r *PollModel) GetUserVotes(ctx context.Context, pollID, userID int64) ([]*types.PollVote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.PollVote, error) {
		var votes []*types.PollVote
		err := r.db.NewSelect().
			Model(&votes).
			Where("poll_id = ?", pollID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user poll votes: %w", err)
		}
		return votes, nil
	})
}

// InsertVotes stores a user's choices. The composite primary key rejects
// duplicate submissions.
func (r *PollModel) InsertVotes(ctx context.Context, votes []*types.PollVote) error {
	now := time.Now()
	for _, vote := range votes {
		vote.CreatedAt = now
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := r.db.NewInsert().Model(&votes).Exec(ctx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrPollAlreadyVoted
		}
		return fmt.Errorf("failed to insert poll votes: %w", err)
	}

	return nil
}

// pollTally is the raw per-option aggregate scanned from the vote table.
type pollTally struct {
	OptionID int64 `bun:"option_id"`
	Count    int   `bun:"vote_count"`
}

// CountVotes returns per-option vote counts and the number of distinct voters.
func (r *PollModel) CountVotes(ctx context.Context, pollID int64) (map[int64]int, int, error) {
	type result struct {
		tallies []pollTally
		voters  int
	}

	res, err := dbretry.Operation(ctx, func(ctx context.Context) (result, error) {
		var res result
		err := r.db.NewSelect().
			Model((*types.PollVote)(nil)).
			ColumnExpr("option_id").
			ColumnExpr("count(*) AS vote_count").
			Where("poll_id = ?", pollID).
			GroupExpr("option_id").
			Scan(ctx, &res.tallies)
		if err != nil {
			return result{}, fmt.Errorf("failed to count poll votes: %w", err)
		}

		err = r.db.NewSelect().
			Model((*types.PollVote)(nil)).
			ColumnExpr("count(DISTINCT user_id)").
			Where("poll_id = ?", pollID).
			Scan(ctx, &res.voters)
		if err != nil {
			return result{}, fmt.Errorf("failed to count poll voters: %w", err)
		}
		return res, nil
	})
	if err != nil {
		return nil, 0, err
	}

	counts := make(map[int64]int, len(res.tallies))
	for _, tally := range res.tallies {
		counts[tally.OptionID] = tally.Count
	}

	return counts, res.voters, nil
}

// ListVoters retrieves the users who voted for each option of a poll.
func (r *PollModel) ListVoters(ctx context.Context, pollID int64) ([]*types.PollVote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.PollVote, error) {
		var votes []*types.PollVote
		err := r.db.NewSelect().
			Model(&votes).
			Where("poll_id = ?", pollID).
			Order("created_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list poll voters: %w", err)
		}
		return votes, nil
	})
}

// DeleteByTopic removes a topic's poll, options and votes. Used by hard
// deletes; runs inside the delete transaction.
func (r *PollModel) DeleteByTopic(ctx context.Context, db bun.IDB, topicID int64) error {
	var pollID int64
	err := db.NewSelect().
		Model((*types.Poll)(nil)).
		Column("id").
		Where("topic_id = ?", topicID).
		Scan(ctx, &pollID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to find poll for topic: %w", err)
	}

	for _, model := range []any{(*types.PollVote)(nil), (*types.PollOption)(nil)} {
		if _, err := db.NewDelete().Model(model).Where("poll_id = ?", pollID).Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete poll rows: %w", err)
		}
	}

	if _, err := db.NewDelete().Model((*types.Poll)(nil)).Where("id = ?", pollID).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	return nil
}
