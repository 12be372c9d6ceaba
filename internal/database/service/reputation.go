package service

import (
	"context"
	"fmt"
	"math"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Point values for reputation events.
const (
	PointsTopicCreated      = 5
	PointsReplyCreated      = 2
	PointsAcceptedAnswer    = 25
	PointsUpvoteReceived    = 10
	PointsDownvoteReceived  = -5
	PointsWarningPenalty    = -10
	PointsSuspensionPenalty = -50
)

// Reputation thresholds for gated actions, checked live at the point of
// the action rather than cached.
const (
	MinDownvoteReputation   = 50
	MinEditOthersReputation = 500
	MinModerateReputation   = 1000
)

// levelThresholds maps each level to the total points where it starts.
// Levels are a monotonic step function of total points.
var levelThresholds = []struct {
	level enum.ReputationLevel
	min   int
}{
	{enum.ReputationLevelNewcomer, 0},
	{enum.ReputationLevelContributor, 100},
	{enum.ReputationLevelExpert, 500},
	{enum.ReputationLevelMaster, 1000},
	{enum.ReputationLevelLegend, 2500},
}

// ReputationService handles reputation ledger business logic.
type ReputationService struct {
	model  *models.ReputationModel
	logger *zap.Logger
}

// NewReputation creates a new reputation service.
func NewReputation(model *models.ReputationModel, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		model:  model,
		logger: logger.Named("reputation_service"),
	}
}

// LevelFor returns the level a point total falls into. Negative totals
// stay in the lowest level.
func LevelFor(total int) enum.ReputationLevel {
	level := levelThresholds[0].level
	for _, threshold := range levelThresholds {
		if total >= threshold.min {
			level = threshold.level
		}
	}
	return level
}

// ProgressFor reports how far a point total is into its level. The top
// level has no next threshold and always reports 100 percent.
func ProgressFor(total int) types.LevelProgress {
	if total < 0 {
		total = 0
	}

	idx := 0
	for i, threshold := range levelThresholds {
		if total >= threshold.min {
			idx = i
		}
	}

	current := levelThresholds[idx]
	if idx == len(levelThresholds)-1 {
		return types.LevelProgress{Current: current.level, Percentage: 100}
	}

	next := levelThresholds[idx+1].min
	pct := int(math.Round(100 * float64(total-current.min) / float64(next-current.min)))

	return types.LevelProgress{
		Current:            current.level,
		NextLevelThreshold: next,
		Percentage:         clampPercent(pct),
	}
}

func clampPercent(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Total sums a user's ledger.
func (s *ReputationService) Total(ctx context.Context, userID int64) (int, error) {
	total, err := s.model.TotalPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get reputation total: %w", err)
	}
	return total, nil
}

// Summary returns a user's total, level and progress in one shot.
func (s *ReputationService) Summary(ctx context.Context, userID int64) (*types.ReputationSummary, error) {
	total, err := s.model.TotalPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation total: %w", err)
	}

	return &types.ReputationSummary{
		UserID:   userID,
		Total:    total,
		Level:    LevelFor(total),
		Progress: ProgressFor(total),
	}, nil
}

// History retrieves a page of a user's ledger, newest first.
func (s *ReputationService) History(
	ctx context.Context, userID int64, eventType enum.ReputationEvent, limit, offset int,
) ([]*types.ReputationEntry, error) {
	entries, err := s.model.ListEntries(ctx, userID, eventType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get reputation history: %w", err)
	}
	return entries, nil
}

// Award appends a ledger entry for a qualifying event. Awards are
// best-effort: failures are logged and never surface to the caller.
func (s *ReputationService) Award(
	ctx context.Context, userID int64, event enum.ReputationEvent, points int, referenceID int64,
) {
	err := s.model.Append(ctx, &types.ReputationEntry{
		UserID:      userID,
		EventType:   event,
		Points:      points,
		ReferenceID: referenceID,
	})
	if err != nil {
		s.logger.Error("Failed to award reputation",
			zap.Error(err),
			zap.Int64("userID", userID),
			zap.String("event", string(event)),
			zap.Int("points", points))
		return
	}

	s.logger.Debug("Awarded reputation",
		zap.Int64("userID", userID),
		zap.String("event", string(event)),
		zap.Int("points", points))
}

// AppendTx appends a ledger entry inside the caller's transaction, for
// adjustments that must commit with their triggering write.
func (s *ReputationService) AppendTx(
	ctx context.Context, db bun.IDB, userID int64, event enum.ReputationEvent, points int, referenceID int64,
) error {
	return s.model.AppendTx(ctx, db, &types.ReputationEntry{
		UserID:      userID,
		EventType:   event,
		Points:      points,
		ReferenceID: referenceID,
	})
}
