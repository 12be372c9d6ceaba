package service

import (
	"context"
	"fmt"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"go.uber.org/zap"
)

// LeaderboardService handles derived user rankings.
type LeaderboardService struct {
	model  *models.LeaderboardModel
	logger *zap.Logger
}

// NewLeaderboard creates a new leaderboard service.
func NewLeaderboard(model *models.LeaderboardModel, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		model:  model,
		logger: logger.Named("leaderboard_service"),
	}
}

// Top returns the highest-ranked users on a board for a period.
func (s *LeaderboardService) Top(
	ctx context.Context, board enum.LeaderboardBoard, period enum.LeaderboardPeriod, limit int,
) ([]*types.LeaderboardEntry, error) {
	if !board.Valid() || !period.Valid() {
		return nil, types.ErrInvalidLeaderboard
	}
	if limit < 1 || limit > 100 {
		limit = 25
	}

	entries, err := s.model.Top(ctx, board, period, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

// UserRank returns where a user stands on a board, with their value.
// Rank zero means no qualifying activity in the period.
func (s *LeaderboardService) UserRank(
	ctx context.Context, userID int64, board enum.LeaderboardBoard, period enum.LeaderboardPeriod,
) (int, int, error) {
	if !board.Valid() || !period.Valid() {
		return 0, 0, types.ErrInvalidLeaderboard
	}

	rank, value, err := s.model.UserRank(ctx, userID, board, period)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get user rank: %w", err)
	}
	return rank, value, nil
}
