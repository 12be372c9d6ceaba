package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/bytedance/sonic"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Moderation reason and suspension bounds.
const (
	MinReasonLength   = 10
	MinSuspensionDays = 1
	MaxSuspensionDays = 365
)

// CheckEscalation enforces the escalation rules for user-targeted
// moderation: nobody touches admins, moderators cannot warn or suspend
// other moderators, and bans are admin-only.
func CheckEscalation(actor, target *types.User, action enum.ModerationAction) error {
	if target.Role == enum.UserRoleAdmin {
		return types.ErrTargetIsAdmin
	}

	switch action {
	case enum.ModerationActionBanUser, enum.ModerationActionUnbanUser:
		if actor.Role != enum.UserRoleAdmin {
			return types.ErrNotAdmin
		}
	case enum.ModerationActionWarnUser, enum.ModerationActionSuspendUser:
		if !actor.Role.AtLeast(enum.UserRoleModerator) {
			return types.ErrNotModerator
		}
		if actor.Role == enum.UserRoleModerator && target.Role == enum.UserRoleModerator {
			return types.ErrTargetIsModerator
		}
	default:
		if !actor.Role.AtLeast(enum.UserRoleModerator) {
			return types.ErrNotModerator
		}
	}

	return nil
}

// ModerationService handles moderation actions and the audit trail.
type ModerationService struct {
	db            *bun.DB
	model         *models.ModerationModel
	userModel     *models.UserModel
	topicModel    *models.TopicModel
	replyModel    *models.ReplyModel
	voteModel     *models.VoteModel
	pollModel     *models.PollModel
	categoryModel *models.CategoryModel
	reputation    *ReputationService
	notification  *NotificationService
	runner        *async.Runner
	logger        *zap.Logger
}

// NewModeration creates a new moderation service.
func NewModeration(
	db *bun.DB, model *models.ModerationModel, userModel *models.UserModel,
	topicModel *models.TopicModel, replyModel *models.ReplyModel,
	voteModel *models.VoteModel, pollModel *models.PollModel,
	categoryModel *models.CategoryModel, reputation *ReputationService,
	notification *NotificationService, runner *async.Runner, logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		db:            db,
		model:         model,
		userModel:     userModel,
		topicModel:    topicModel,
		replyModel:    replyModel,
		voteModel:     voteModel,
		pollModel:     pollModel,
		categoryModel: categoryModel,
		reputation:    reputation,
		notification:  notification,
		runner:        runner,
		logger:        logger.Named("moderation_service"),
	}
}

// PinTopic pins or unpins a topic.
func (s *ModerationService) PinTopic(ctx context.Context, actor *types.User, topicID int64, pinned bool, reason string) error {
	topic, err := s.authorizeTopic(ctx, actor, topicID)
	if err != nil {
		return err
	}

	if err := s.topicModel.SetPinned(ctx, topicID, pinned); err != nil {
		return fmt.Errorf("failed to set pinned: %w", err)
	}

	action := enum.ModerationActionPinTopic
	if !pinned {
		action = enum.ModerationActionUnpinTopic
	}
	s.log(ctx, actor.ID, action, enum.TargetTypeTopic, topic.ID, reason, nil)

	return nil
}

// LockTopic locks or unlocks a topic. Locking notifies the author.
func (s *ModerationService) LockTopic(ctx context.Context, actor *types.User, topicID int64, locked bool, reason string) error {
	topic, err := s.authorizeTopic(ctx, actor, topicID)
	if err != nil {
		return err
	}

	if err := s.topicModel.SetLocked(ctx, topicID, locked); err != nil {
		return fmt.Errorf("failed to set locked: %w", err)
	}

	action := enum.ModerationActionLockTopic
	if !locked {
		action = enum.ModerationActionUnlockTopic
	}
	s.log(ctx, actor.ID, action, enum.TargetTypeTopic, topic.ID, reason, nil)

	if locked {
		actorID := actor.ID
		s.runner.Go("topic_locked", func(ctx context.Context) {
			s.notification.Notify(ctx, &types.Notification{
				RecipientID: topic.AuthorID,
				ActorID:     actorID,
				Type:        enum.NotificationTypeTopicLocked,
				TargetType:  enum.TargetTypeTopic,
				TargetID:    topic.ID,
				Message:     fmt.Sprintf("Your topic %q was locked", topic.Title),
			})
		})
	}

	return nil
}

// MoveTopic moves a topic to another category, recounting both sides.
func (s *ModerationService) MoveTopic(ctx context.Context, actor *types.User, topicID, categoryID int64, reason string) error {
	topic, err := s.authorizeTopic(ctx, actor, topicID)
	if err != nil {
		return err
	}

	target, err := s.categoryModel.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !target.IsActive {
		return types.ErrCategoryInactive
	}
	if err := s.authorizeCategory(ctx, actor, categoryID); err != nil {
		return err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.topicModel.MoveCategory(ctx, tx, topicID, categoryID); err != nil {
			return err
		}
		if err := s.categoryModel.RecountTopics(ctx, tx, topic.CategoryID); err != nil {
			return err
		}
		return s.categoryModel.RecountTopics(ctx, tx, categoryID)
	})
	if err != nil {
		return fmt.Errorf("failed to move topic: %w", err)
	}

	s.log(ctx, actor.ID, enum.ModerationActionMoveTopic, enum.TargetTypeTopic, topicID, reason,
		map[string]any{"fromCategoryId": topic.CategoryID, "toCategoryId": categoryID})

	return nil
}

// MergeTopics moves every reply of the source topic into the target,
// recounts the target and archives the source, in one transaction.
func (s *ModerationService) MergeTopics(ctx context.Context, actor *types.User, sourceID, targetID int64, reason string) error {
	if sourceID == targetID {
		return types.ErrSameTopicMerge
	}

	source, err := s.authorizeTopic(ctx, actor, sourceID)
	if err != nil {
		return err
	}
	target, err := s.authorizeTopic(ctx, actor, targetID)
	if err != nil {
		return err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.replyModel.MoveToTopic(ctx, tx, sourceID, targetID); err != nil {
			return err
		}
		if err := s.topicModel.RecountReplies(ctx, tx, targetID); err != nil {
			return err
		}
		if err := s.topicModel.ArchiveTopic(ctx, tx, sourceID); err != nil {
			return err
		}
		return s.categoryModel.RecountTopics(ctx, tx, source.CategoryID)
	})
	if err != nil {
		return fmt.Errorf("failed to merge topics: %w", err)
	}

	s.log(ctx, actor.ID, enum.ModerationActionMergeTopics, enum.TargetTypeTopic, sourceID, reason,
		map[string]any{"targetTopicId": target.ID})

	return nil
}

// HardDeleteTopic permanently removes a topic with its replies, votes
// and poll. Admin only; requires a substantive reason.
func (s *ModerationService) HardDeleteTopic(ctx context.Context, actor *types.User, topicID int64, reason string) error {
	if actor.Role != enum.UserRoleAdmin {
		return types.ErrNotAdmin
	}
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return types.ErrReasonTooShort
	}

	topic, err := s.topicModel.GetTopicByID(ctx, topicID)
	if err != nil {
		return err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		replyIDs, err := s.replyModel.DeleteByTopic(ctx, tx, topicID)
		if err != nil {
			return err
		}
		if err := s.voteModel.DeleteVotesByTopic(ctx, tx, topicID, replyIDs); err != nil {
			return err
		}
		if err := s.pollModel.DeleteByTopic(ctx, tx, topicID); err != nil {
			return err
		}
		if err := s.topicModel.HardDeleteTopic(ctx, tx, topicID); err != nil {
			return err
		}
		return s.categoryModel.RecountTopics(ctx, tx, topic.CategoryID)
	})
	if err != nil {
		return fmt.Errorf("failed to hard delete topic: %w", err)
	}

	s.log(ctx, actor.ID, enum.ModerationActionDeleteTopic, enum.TargetTypeTopic, topicID, reason,
		map[string]any{"title": topic.Title, "authorId": topic.AuthorID})

	return nil
}

// WarnUser issues a formal warning with a reputation penalty.
func (s *ModerationService) WarnUser(ctx context.Context, actor *types.User, userID int64, reason string) error {
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return types.ErrReasonTooShort
	}

	target, err := s.userModel.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckEscalation(actor, target, enum.ModerationActionWarnUser); err != nil {
		return err
	}

	warning := &types.UserWarning{
		UserID:      userID,
		ModeratorID: actor.ID,
		Reason:      reason,
	}
	if err := s.model.InsertWarning(ctx, warning); err != nil {
		return err
	}

	s.log(ctx, actor.ID, enum.ModerationActionWarnUser, enum.TargetTypeUser, userID, reason, nil)

	actorID := actor.ID
	s.runner.Go("user_warned", func(ctx context.Context) {
		s.reputation.Award(ctx, userID, enum.ReputationEventWarningPenalty, PointsWarningPenalty, warning.ID)
		s.notification.Notify(ctx, &types.Notification{
			RecipientID: userID,
			ActorID:     actorID,
			Type:        enum.NotificationTypeWarning,
			TargetType:  enum.TargetTypeUser,
			TargetID:    userID,
			Message:     fmt.Sprintf("You received a warning: %s", reason),
		})
	})

	return nil
}

// SuspendUser suspends a user for a number of days with a reputation
// penalty.
func (s *ModerationService) SuspendUser(ctx context.Context, actor *types.User, userID int64, days int, reason string) error {
	if days < MinSuspensionDays || days > MaxSuspensionDays {
		return types.ErrSuspensionLength
	}
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return types.ErrReasonTooShort
	}

	target, err := s.userModel.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckEscalation(actor, target, enum.ModerationActionSuspendUser); err != nil {
		return err
	}

	until := time.Now().AddDate(0, 0, days)
	if err := s.userModel.SetSuspendedUntil(ctx, userID, until); err != nil {
		return err
	}

	s.log(ctx, actor.ID, enum.ModerationActionSuspendUser, enum.TargetTypeUser, userID, reason,
		map[string]any{"days": days, "until": until})

	actorID := actor.ID
	s.runner.Go("user_suspended", func(ctx context.Context) {
		s.reputation.Award(ctx, userID, enum.ReputationEventSuspensionPenalty, PointsSuspensionPenalty, userID)
		s.notification.Notify(ctx, &types.Notification{
			RecipientID: userID,
			ActorID:     actorID,
			Type:        enum.NotificationTypeSuspension,
			TargetType:  enum.TargetTypeUser,
			TargetID:    userID,
			Message:     fmt.Sprintf("You are suspended for %d days: %s", days, reason),
		})
	})

	return nil
}

// BanUser permanently bans a user. Admin only.
func (s *ModerationService) BanUser(ctx context.Context, actor *types.User, userID int64, reason string) error {
	if len(strings.TrimSpace(reason)) < MinReasonLength {
		return types.ErrReasonTooShort
	}

	target, err := s.userModel.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckEscalation(actor, target, enum.ModerationActionBanUser); err != nil {
		return err
	}

	if err := s.userModel.SetBanned(ctx, userID, true); err != nil {
		return err
	}

	s.log(ctx, actor.ID, enum.ModerationActionBanUser, enum.TargetTypeUser, userID, reason, nil)

	return nil
}

// UnbanUser lifts a ban. Admin only.
func (s *ModerationService) UnbanUser(ctx context.Context, actor *types.User, userID int64, reason string) error {
	target, err := s.userModel.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckEscalation(actor, target, enum.ModerationActionUnbanUser); err != nil {
		return err
	}

	if err := s.userModel.SetBanned(ctx, userID, false); err != nil {
		return err
	}

	s.log(ctx, actor.ID, enum.ModerationActionUnbanUser, enum.TargetTypeUser, userID, reason, nil)

	return nil
}

// ListLogs retrieves the audit trail. Moderator or admin only.
func (s *ModerationService) ListLogs(
	ctx context.Context, actor *types.User, filter types.ModerationLogFilter, limit, offset int,
) ([]*types.ModerationLog, error) {
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrNotModerator
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	logs, err := s.model.ListLogs(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list moderation logs: %w", err)
	}
	return logs, nil
}

// ListWarnings retrieves a user's warnings. Users may read their own;
// moderators may read anyone's.
func (s *ModerationService) ListWarnings(ctx context.Context, actor *types.User, userID int64) ([]*types.UserWarning, error) {
	if actor.ID != userID && !actor.Role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrNotModerator
	}

	warnings, err := s.model.ListWarnings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	return warnings, nil
}

// authorizeTopic loads a topic and checks the actor may moderate its
// category: admins always, others only as assigned category moderators.
func (s *ModerationService) authorizeTopic(ctx context.Context, actor *types.User, topicID int64) (*types.Topic, error) {
	topic, err := s.topicModel.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeCategory(ctx, actor, topic.CategoryID); err != nil {
		return nil, err
	}

	return topic, nil
}

func (s *ModerationService) authorizeCategory(ctx context.Context, actor *types.User, categoryID int64) error {
	if actor.Role == enum.UserRoleAdmin {
		return nil
	}
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return types.ErrNotModerator
	}

	assigned, err := s.categoryModel.IsModerator(ctx, categoryID, actor.ID)
	if err != nil {
		return err
	}
	if !assigned {
		return types.ErrNotModerator
	}

	return nil
}

// log appends an audit entry. Best-effort: the model swallows failures.
func (s *ModerationService) log(
	ctx context.Context, moderatorID int64, action enum.ModerationAction,
	targetType enum.TargetType, targetID int64, reason string, metadata map[string]any,
) {
	var blob []byte
	if len(metadata) > 0 {
		var err error
		blob, err = sonic.Marshal(metadata)
		if err != nil {
			s.logger.Error("Failed to marshal moderation metadata", zap.Error(err))
		}
	}

	s.model.Log(ctx, &types.ModerationLog{
		ModeratorID: moderatorID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      reason,
		Metadata:    blob,
	})
}
