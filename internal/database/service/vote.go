package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// DailyVoteLimit caps how many votes a user may cast per UTC day.
// Removing a vote does not count against the quota.
const DailyVoteLimit = 50

// VoteQuota tracks per-user daily vote counts.
type VoteQuota interface {
	// Count returns how many votes the user has cast today.
	Count(ctx context.Context, userID int64) (int, error)
	// Increment records one cast vote and returns the new count.
	Increment(ctx context.Context, userID int64) (int, error)
}

// ReputationDelta is one ledger adjustment produced by a vote transition.
type ReputationDelta struct {
	Event  enum.ReputationEvent
	Points int
}

// TransitionDeltas maps a vote transition (previous value to new value)
// onto the ledger adjustments for the content author. A changed vote
// produces two entries: the removal of the old effect and the new one.
func TransitionDeltas(prev, next int) []ReputationDelta {
	var deltas []ReputationDelta

	switch prev {
	case 1:
		deltas = append(deltas, ReputationDelta{enum.ReputationEventUpvoteRemoved, -PointsUpvoteReceived})
	case -1:
		deltas = append(deltas, ReputationDelta{enum.ReputationEventDownvoteRemoved, -PointsDownvoteReceived})
	}

	switch next {
	case 1:
		deltas = append(deltas, ReputationDelta{enum.ReputationEventUpvoteReceived, PointsUpvoteReceived})
	case -1:
		deltas = append(deltas, ReputationDelta{enum.ReputationEventDownvoteReceived, PointsDownvoteReceived})
	}

	return deltas
}

// VoteService handles the vote casting pipeline for topics and replies.
type VoteService struct {
	db         *bun.DB
	voteModel  *models.VoteModel
	topicModel *models.TopicModel
	replyModel *models.ReplyModel
	reputation *ReputationService
	quota      VoteQuota
	logger     *zap.Logger
}

// NewVote creates a new vote service.
func NewVote(
	db *bun.DB, voteModel *models.VoteModel, topicModel *models.TopicModel,
	replyModel *models.ReplyModel, reputation *ReputationService, quota VoteQuota,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		db:         db,
		voteModel:  voteModel,
		topicModel: topicModel,
		replyModel: replyModel,
		reputation: reputation,
		quota:      quota,
		logger:     logger.Named("vote_service"),
	}
}

// CastTopicVote applies a user's vote on a topic. Value 1 upvotes,
// -1 downvotes, 0 removes the existing vote.
func (s *VoteService) CastTopicVote(ctx context.Context, topicID, voterID int64, value int) (*types.VoteResult, error) {
	if value != 1 && value != -1 && value != 0 {
		return nil, types.ErrInvalidVoteValue
	}

	topic, err := s.topicModel.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked {
		return nil, types.ErrTopicLocked
	}
	if topic.AuthorID == voterID {
		return nil, types.ErrSelfVote
	}

	existing, err := s.voteModel.GetTopicVote(ctx, topicID, voterID)
	if err != nil {
		return nil, err
	}

	prev := 0
	if existing != nil {
		prev = existing.Value
	}

	// Resubmitting the same value is an idempotent no-op.
	if prev == value {
		counts := types.VoteCounts{Upvotes: topic.UpvoteCount, Downvotes: topic.DownvoteCount}
		return voteResult(counts, value), nil
	}

	if err := s.checkGates(ctx, voterID, value); err != nil {
		return nil, err
	}

	var counts types.VoteCounts
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if value == 0 {
			if err := s.voteModel.DeleteTopicVote(ctx, tx, topicID, voterID); err != nil {
				return err
			}
		} else {
			vote := &types.TopicVote{TopicID: topicID, UserID: voterID, Value: value, CreatedAt: time.Now()}
			if err := s.voteModel.UpsertTopicVote(ctx, tx, vote); err != nil {
				return err
			}
		}

		counts, err = s.voteModel.CountTopicVotes(ctx, tx, topicID)
		if err != nil {
			return err
		}
		if err := s.topicModel.UpdateVoteCounts(ctx, tx, topicID, counts); err != nil {
			return err
		}

		return s.appendDeltas(ctx, tx, topic.AuthorID, topicID, prev, value)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cast topic vote: %w", err)
	}

	s.recordQuota(ctx, voterID, value)

	return voteResult(counts, value), nil
}

// CastReplyVote applies a user's vote on a reply.
func (s *VoteService) CastReplyVote(ctx context.Context, replyID, voterID int64, value int) (*types.VoteResult, error) {
	if value != 1 && value != -1 && value != 0 {
		return nil, types.ErrInvalidVoteValue
	}

	reply, err := s.replyModel.GetReplyByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.IsDeleted {
		return nil, types.ErrReplyDeleted
	}
	if reply.AuthorID == voterID {
		return nil, types.ErrSelfVote
	}

	topic, err := s.topicModel.GetTopicByID(ctx, reply.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked {
		return nil, types.ErrTopicLocked
	}

	existing, err := s.voteModel.GetReplyVote(ctx, replyID, voterID)
	if err != nil {
		return nil, err
	}

	prev := 0
	if existing != nil {
		prev = existing.Value
	}

	if prev == value {
		counts := types.VoteCounts{Upvotes: reply.UpvoteCount, Downvotes: reply.DownvoteCount}
		return voteResult(counts, value), nil
	}

	if err := s.checkGates(ctx, voterID, value); err != nil {
		return nil, err
	}

	var counts types.VoteCounts
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if value == 0 {
			if err := s.voteModel.DeleteReplyVote(ctx, tx, replyID, voterID); err != nil {
				return err
			}
		} else {
			vote := &types.ReplyVote{ReplyID: replyID, UserID: voterID, Value: value, CreatedAt: time.Now()}
			if err := s.voteModel.UpsertReplyVote(ctx, tx, vote); err != nil {
				return err
			}
		}

		counts, err = s.voteModel.CountReplyVotes(ctx, tx, replyID)
		if err != nil {
			return err
		}
		if err := s.replyModel.UpdateVoteCounts(ctx, tx, replyID, counts); err != nil {
			return err
		}

		return s.appendDeltas(ctx, tx, reply.AuthorID, replyID, prev, value)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cast reply vote: %w", err)
	}

	s.recordQuota(ctx, voterID, value)

	return voteResult(counts, value), nil
}

// History retrieves a page of the user's votes across topics and replies.
func (s *VoteService) History(ctx context.Context, userID int64, limit, offset int) ([]*types.UserVoteRecord, error) {
	votes, err := s.voteModel.ListUserVotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get vote history: %w", err)
	}
	return votes, nil
}

// checkGates enforces the downvote reputation gate and the daily quota.
// Removals bypass both: taking a vote back is always allowed.
func (s *VoteService) checkGates(ctx context.Context, voterID int64, value int) error {
	if value == 0 {
		return nil
	}

	if value == -1 {
		total, err := s.reputation.Total(ctx, voterID)
		if err != nil {
			return err
		}
		if total < MinDownvoteReputation {
			return types.ErrInsufficientReputation
		}
	}

	count, err := s.quota.Count(ctx, voterID)
	if err != nil {
		return fmt.Errorf("failed to check vote quota: %w", err)
	}
	if count >= DailyVoteLimit {
		return types.ErrDailyVoteLimit
	}

	return nil
}

// appendDeltas writes the ledger adjustments for a vote transition inside
// the vote transaction, so a vote never lands without its side effect.
func (s *VoteService) appendDeltas(ctx context.Context, tx bun.Tx, authorID, referenceID int64, prev, next int) error {
	for _, delta := range TransitionDeltas(prev, next) {
		if err := s.reputation.AppendTx(ctx, tx, authorID, delta.Event, delta.Points, referenceID); err != nil {
			return err
		}
	}
	return nil
}

// recordQuota counts a cast vote against the daily quota. Best-effort:
// the vote already committed, so a counter failure is only logged.
func (s *VoteService) recordQuota(ctx context.Context, voterID int64, value int) {
	if value == 0 {
		return
	}

	if _, err := s.quota.Increment(ctx, voterID); err != nil {
		s.logger.Error("Failed to record vote quota",
			zap.Error(err),
			zap.Int64("voterID", voterID))
	}
}

func voteResult(counts types.VoteCounts, userVote int) *types.VoteResult {
	score := counts.Score()
	return &types.VoteResult{
		VoteScore:     score,
		UpvoteCount:   counts.Upvotes,
		DownvoteCount: counts.Downvotes,
		UserVote:      userVote,
		Hidden:        score <= types.AutoHideScore,
	}
}
