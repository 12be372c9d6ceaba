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

// LeaderboardModel computes ranked user standings from the reputation
// ledger and content tables. Rankings are derived on demand, never stored.
type LeaderboardModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewLeaderboard creates a new leaderboard model.
func NewLeaderboard(db *bun.DB, logger *zap.Logger) *LeaderboardModel {
	return &LeaderboardModel{
		db:     db,
		logger: logger.Named("db_leaderboard"),
	}
}

// Top returns the highest-ranked users on a board for a period. Banned
// users are excluded; ties break by user ID so pages are stable.
func (r *LeaderboardModel) Top(
	ctx context.Context, board enum.LeaderboardBoard, period enum.LeaderboardPeriod, limit int,
) ([]*types.LeaderboardEntry, error) {
	entries, err := dbretry.Operation(ctx, func(ctx context.Context) ([]*types.LeaderboardEntry, error) {
		var entries []*types.LeaderboardEntry
		q, err := r.boardQuery(board, types.PeriodStart(period, time.Now()))
		if err != nil {
			return nil, err
		}

		err = q.OrderExpr("value DESC, user_id ASC").
			Limit(limit).
			Scan(ctx, &entries)
		if err != nil {
			return nil, fmt.Errorf("failed to query leaderboard: %w", err)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries, nil
}

// boardQuery builds the per-user aggregate for one board, joined with the
// user table for display fields.
func (r *LeaderboardModel) boardQuery(board enum.LeaderboardBoard, since time.Time) (*bun.SelectQuery, error) {
	var q *bun.SelectQuery

	switch board {
	case enum.LeaderboardBoardReputation:
		q = r.db.NewSelect().
			Model((*types.ReputationEntry)(nil)).
			ColumnExpr("reputation_entry.user_id").
			ColumnExpr("coalesce(sum(reputation_entry.points), 0) AS value")
		if !since.IsZero() {
			q = q.Where("reputation_entry.created_at >= ?", since)
		}
		q = q.Join("JOIN users AS u ON u.id = reputation_entry.user_id").
			GroupExpr("reputation_entry.user_id, u.username, u.display_name")

	case enum.LeaderboardBoardTopics:
		q = r.db.NewSelect().
			Model((*types.Topic)(nil)).
			ColumnExpr("topic.author_id AS user_id").
			ColumnExpr("count(*) AS value").
			Where("topic.is_draft = false").
			Where("topic.status = 'active'")
		if !since.IsZero() {
			q = q.Where("topic.created_at >= ?", since)
		}
		q = q.Join("JOIN users AS u ON u.id = topic.author_id").
			GroupExpr("topic.author_id, u.username, u.display_name")

	case enum.LeaderboardBoardAnswers:
		q = r.db.NewSelect().
			Model((*types.Reply)(nil)).
			ColumnExpr("reply.author_id AS user_id").
			ColumnExpr("count(*) AS value").
			Where("reply.is_accepted = true").
			Where("reply.is_deleted = false")
		if !since.IsZero() {
			q = q.Where("reply.accepted_at >= ?", since)
		}
		q = q.Join("JOIN users AS u ON u.id = reply.author_id").
			GroupExpr("reply.author_id, u.username, u.display_name")

	default:
		return nil, types.ErrInvalidLeaderboard
	}

	return q.ColumnExpr("u.username, u.display_name").
		Where("u.is_banned = false"), nil
}

// UserRank returns a user's position on a board, or zero when they have
// no qualifying activity in the period.
func (r *LeaderboardModel) UserRank(
	ctx context.Context, userID int64, board enum.LeaderboardBoard, period enum.LeaderboardPeriod,
) (int, int, error) {
	type ranked struct {
		UserID int64 `bun:"user_id"`
		Value  int   `bun:"value"`
		Rank   int   `bun:"rank"`
	}

	res, err := dbretry.Operation(ctx, func(ctx context.Context) (ranked, error) {
		inner, err := r.boardQuery(board, types.PeriodStart(period, time.Now()))
		if err != nil {
			return ranked{}, err
		}

		windowed := r.db.NewSelect().
			ColumnExpr("user_id, value").
			ColumnExpr("rank() OVER (ORDER BY value DESC, user_id ASC) AS rank").
			TableExpr("(?) AS board", inner)

		var row ranked
		err = r.db.NewSelect().
			ColumnExpr("user_id, value, rank").
			TableExpr("(?) AS ranked", windowed).
			Where("user_id = ?", userID).
			Scan(ctx, &row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ranked{}, nil
			}
			return ranked{}, fmt.Errorf("failed to rank user: %w", err)
		}
		return row, nil
	})
	if err != nil {
		return 0, 0, err
	}

	return res.Rank, res.Value, nil
}
