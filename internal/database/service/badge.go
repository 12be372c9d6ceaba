package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"go.uber.org/zap"
)

// Badge qualification thresholds.
const (
	ProlificAuthorTopics = 25
	HelpfulAcceptedCount = 10
	UpvotedReceivedCount = 100
	VeteranAccountAge    = 365 * 24 * time.Hour
)

// BadgeService handles badge awarding business logic.
type BadgeService struct {
	model        *models.BadgeModel
	userModel    *models.UserModel
	topicModel   *models.TopicModel
	replyModel   *models.ReplyModel
	voteModel    *models.VoteModel
	notification *NotificationService
	logger       *zap.Logger
}

// NewBadge creates a new badge service.
func NewBadge(
	model *models.BadgeModel, userModel *models.UserModel, topicModel *models.TopicModel,
	replyModel *models.ReplyModel, voteModel *models.VoteModel,
	notification *NotificationService, logger *zap.Logger,
) *BadgeService {
	return &BadgeService{
		model:        model,
		userModel:    userModel,
		topicModel:   topicModel,
		replyModel:   replyModel,
		voteModel:    voteModel,
		notification: notification,
		logger:       logger.Named("badge_service"),
	}
}

// List retrieves all badge definitions.
func (s *BadgeService) List(ctx context.Context) ([]*types.Badge, error) {
	badges, err := s.model.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// ListForUser retrieves the badges a user has earned.
func (s *BadgeService) ListForUser(ctx context.Context, userID int64) ([]*types.UserBadge, error) {
	badges, err := s.model.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	return badges, nil
}

// CheckUser evaluates every badge rule for a user and awards what they
// qualify for. Best-effort: awarding runs after qualifying events and
// failures are only logged. Awarding is idempotent, so rechecking is safe.
func (s *BadgeService) CheckUser(ctx context.Context, userID int64) {
	for code, qualifies := range map[string]func(context.Context, int64) (bool, error){
		types.BadgeFirstTopic:          s.qualifiesFirstTopic,
		types.BadgeFirstAcceptedAnswer: s.qualifiesFirstAccepted,
		types.BadgeProlificAuthor:      s.qualifiesProlific,
		types.BadgeHelpfulTen:          s.qualifiesHelpful,
		types.BadgeUpvotedHundred:      s.qualifiesUpvoted,
		types.BadgeVeteran:             s.qualifiesVeteran,
	} {
		ok, err := qualifies(ctx, userID)
		if err != nil {
			s.logger.Error("Failed to evaluate badge rule",
				zap.Error(err),
				zap.Int64("userID", userID),
				zap.String("badge", code))
			continue
		}
		if ok {
			s.award(ctx, userID, code)
		}
	}
}

func (s *BadgeService) qualifiesFirstTopic(ctx context.Context, userID int64) (bool, error) {
	count, err := s.topicModel.CountTopicsByAuthor(ctx, userID)
	return count >= 1, err
}

func (s *BadgeService) qualifiesProlific(ctx context.Context, userID int64) (bool, error) {
	count, err := s.topicModel.CountTopicsByAuthor(ctx, userID)
	return count >= ProlificAuthorTopics, err
}

func (s *BadgeService) qualifiesFirstAccepted(ctx context.Context, userID int64) (bool, error) {
	count, err := s.replyModel.CountAcceptedByAuthor(ctx, userID)
	return count >= 1, err
}

func (s *BadgeService) qualifiesHelpful(ctx context.Context, userID int64) (bool, error) {
	count, err := s.replyModel.CountAcceptedByAuthor(ctx, userID)
	return count >= HelpfulAcceptedCount, err
}

func (s *BadgeService) qualifiesUpvoted(ctx context.Context, userID int64) (bool, error) {
	count, err := s.voteModel.CountUpvotesReceived(ctx, userID)
	return count >= UpvotedReceivedCount, err
}

func (s *BadgeService) qualifiesVeteran(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userModel.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return time.Since(user.CreatedAt) >= VeteranAccountAge, nil
}

// award grants one badge and notifies the user when it is new.
func (s *BadgeService) award(ctx context.Context, userID int64, code string) {
	badge, err := s.model.GetBadgeByCode(ctx, code)
	if err != nil {
		s.logger.Error("Failed to look up badge",
			zap.Error(err),
			zap.String("badge", code))
		return
	}

	awarded, err := s.model.AwardBadge(ctx, userID, badge.ID)
	if err != nil {
		s.logger.Error("Failed to award badge",
			zap.Error(err),
			zap.Int64("userID", userID),
			zap.String("badge", code))
		return
	}
	if !awarded {
		return
	}

	s.logger.Debug("Awarded badge",
		zap.Int64("userID", userID),
		zap.String("badge", code))

	s.notification.Notify(ctx, &types.Notification{
		RecipientID: userID,
		Type:        enum.NotificationTypeBadgeAwarded,
		TargetType:  enum.TargetTypeUser,
		TargetID:    badge.ID,
		Message:     fmt.Sprintf("You earned the %q badge", badge.Name),
	})
}
