package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/pkg/utils"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// EditWindow is how long a reply author may edit their own reply after
// posting it. Moderators and admins are not bound by it.
const EditWindow = 15 * time.Minute

// CanEditReply reports whether an editor may change a reply: the author
// within the edit window, or a moderator/admin at any time. The window
// runs from creation and is not extended by earlier edits.
func CanEditReply(reply *types.Reply, editorID int64, role enum.UserRole, now time.Time) bool {
	if role.AtLeast(enum.UserRoleModerator) {
		return true
	}
	if reply.AuthorID != editorID {
		return false
	}
	return now.Sub(reply.CreatedAt) <= EditWindow
}

// CreateReplyParams carries the inputs for posting a reply.
type CreateReplyParams struct {
	TopicID       int64
	AuthorID      int64
	Content       string
	ParentReplyID int64
	QuotedReplyID int64
}

// ReplyService handles reply business logic: threading, editing,
// accept-answer state and the notifications they produce.
type ReplyService struct {
	db           *bun.DB
	model        *models.ReplyModel
	topicModel   *models.TopicModel
	userModel    *models.UserModel
	reputation   *ReputationService
	notification *NotificationService
	badges       *BadgeService
	runner       *async.Runner
	logger       *zap.Logger
}

// NewReply creates a new reply service.
func NewReply(
	db *bun.DB, model *models.ReplyModel, topicModel *models.TopicModel,
	userModel *models.UserModel, reputation *ReputationService,
	notification *NotificationService, badges *BadgeService,
	runner *async.Runner, logger *zap.Logger,
) *ReplyService {
	return &ReplyService{
		db:           db,
		model:        model,
		topicModel:   topicModel,
		userModel:    userModel,
		reputation:   reputation,
		notification: notification,
		badges:       badges,
		runner:       runner,
		logger:       logger.Named("reply_service"),
	}
}

// CreateReply posts a reply under a topic, threading it beneath an
// optional parent. Reputation award and notifications run in the
// background after the reply is stored.
func (s *ReplyService) CreateReply(ctx context.Context, params CreateReplyParams) (*types.Reply, error) {
	if len(params.Content) < types.ReplyContentMinLength || len(params.Content) > types.ReplyContentMaxLength {
		return nil, types.ErrContentLength
	}

	topic, err := s.topicModel.GetTopicByID(ctx, params.TopicID)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked {
		return nil, types.ErrTopicLocked
	}
	if topic.Status == enum.TopicStatusArchived || topic.IsDraft {
		return nil, types.ErrTopicArchived
	}

	depth := 0
	var parentAuthorID int64
	if params.ParentReplyID != 0 {
		parent, err := s.model.GetReplyByID(ctx, params.ParentReplyID)
		if err != nil {
			return nil, err
		}
		if parent.TopicID != params.TopicID {
			return nil, types.ErrParentTopicMismatch
		}
		if parent.Depth >= types.MaxReplyDepth {
			return nil, types.ErrMaxReplyDepth
		}
		depth = parent.Depth + 1
		parentAuthorID = parent.AuthorID
	}

	if params.QuotedReplyID != 0 {
		quoted, err := s.model.GetReplyByID(ctx, params.QuotedReplyID)
		if err != nil {
			return nil, err
		}
		if quoted.TopicID != params.TopicID {
			return nil, types.ErrQuoteTopicMismatch
		}
	}

	reply := &types.Reply{
		TopicID:       params.TopicID,
		AuthorID:      params.AuthorID,
		Content:       params.Content,
		ParentReplyID: params.ParentReplyID,
		QuotedReplyID: params.QuotedReplyID,
		Depth:         depth,
		Mentions:      utils.ParseMentions(params.Content),
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.CreateReply(ctx, tx, reply); err != nil {
			return err
		}
		return s.topicModel.RecountReplies(ctx, tx, params.TopicID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	s.afterCreate(reply, topic, parentAuthorID)

	return reply, nil
}

// GetReply retrieves a reply by ID.
func (s *ReplyService) GetReply(ctx context.Context, id int64) (*types.Reply, error) {
	return s.model.GetReplyByID(ctx, id)
}

// ListTopicReplies returns a topic's replies assembled into trees.
func (s *ReplyService) ListTopicReplies(ctx context.Context, topicID int64, sort enum.ReplySort) ([]*types.ReplyTree, error) {
	if !sort.Valid() {
		sort = enum.ReplySortOldest
	}

	replies, err := s.model.GetTopicReplies(ctx, topicID, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}

	return BuildReplyTree(replies), nil
}

// BuildReplyTree nests flat reply rows by parent, preserving the input
// order at each level. Replies whose parent is missing become roots.
func BuildReplyTree(replies []*types.Reply) []*types.ReplyTree {
	nodes := make(map[int64]*types.ReplyTree, len(replies))
	for _, reply := range replies {
		nodes[reply.ID] = &types.ReplyTree{Reply: reply}
	}

	roots := make([]*types.ReplyTree, 0, len(replies))
	for _, reply := range replies {
		node := nodes[reply.ID]
		if parent, ok := nodes[reply.ParentReplyID]; ok && reply.ParentReplyID != reply.ID {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
	}

	return roots
}

// ListByAuthor retrieves a flat page of a user's replies.
func (s *ReplyService) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*types.Reply, error) {
	replies, err := s.model.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies by author: %w", err)
	}
	return replies, nil
}

// EditReply updates a reply's content, snapshotting the previous content
// into the edit history in the same transaction.
func (s *ReplyService) EditReply(
	ctx context.Context, id, editorID int64, role enum.UserRole, content string,
) (*types.Reply, error) {
	if len(content) < types.ReplyContentMinLength || len(content) > types.ReplyContentMaxLength {
		return nil, types.ErrContentLength
	}

	reply, err := s.model.GetReplyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reply.IsDeleted {
		return nil, types.ErrReplyDeleted
	}

	if !CanEditReply(reply, editorID, role, time.Now()) {
		if reply.AuthorID == editorID {
			return nil, types.ErrEditWindowClosed
		}
		return nil, types.ErrNotReplyAuthor
	}

	now := time.Now()
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		edit := &types.ReplyEdit{
			ReplyID:  id,
			EditorID: editorID,
			Content:  reply.Content,
			EditedAt: now,
		}
		if err := s.model.InsertEdit(ctx, tx, edit); err != nil {
			return err
		}
		return s.model.UpdateContent(ctx, tx, id, content, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit reply: %w", err)
	}

	reply.Content = content
	reply.EditedAt = now
	reply.Mentions = utils.ParseMentions(content)

	return reply, nil
}

// ListEdits retrieves a reply's edit history, oldest first.
func (s *ReplyService) ListEdits(ctx context.Context, replyID int64) ([]*types.ReplyEdit, error) {
	edits, err := s.model.ListEdits(ctx, replyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reply edits: %w", err)
	}
	return edits, nil
}

// DeleteReply soft-deletes a reply. Authors may delete their own;
// moderators and admins may delete any.
func (s *ReplyService) DeleteReply(ctx context.Context, id, actorID int64, role enum.UserRole) error {
	reply, err := s.model.GetReplyByID(ctx, id)
	if err != nil {
		return err
	}
	if reply.AuthorID != actorID && !role.AtLeast(enum.UserRoleModerator) {
		return types.ErrNotReplyAuthor
	}

	if err := s.model.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}

	return nil
}

// AcceptAnswer marks a reply as the accepted answer of a question topic.
// Only the topic author may accept; accepting a new reply first clears
// the previous one, reversing its award.
func (s *ReplyService) AcceptAnswer(ctx context.Context, topicID, replyID, actorID int64) error {
	topic, err := s.topicModel.GetTopicByID(ctx, topicID)
	if err != nil {
		return err
	}
	if topic.Type != enum.TopicTypeQuestion {
		return types.ErrTopicNotQuestion
	}
	if topic.AuthorID != actorID {
		return types.ErrNotTopicAuthor
	}

	reply, err := s.model.GetReplyByID(ctx, replyID)
	if err != nil {
		return err
	}
	if reply.TopicID != topicID {
		return types.ErrParentTopicMismatch
	}
	if reply.IsDeleted {
		return types.ErrReplyDeleted
	}
	if reply.IsAccepted {
		return nil
	}

	var previousAuthorID int64
	if topic.AcceptedReplyID != 0 && topic.AcceptedReplyID != replyID {
		previous, err := s.model.GetReplyByID(ctx, topic.AcceptedReplyID)
		if err != nil {
			return fmt.Errorf("failed to get previously accepted reply: %w", err)
		}
		previousAuthorID = previous.AuthorID
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.ClearAccepted(ctx, tx, topicID); err != nil {
			return err
		}
		if err := s.model.SetAccepted(ctx, tx, replyID); err != nil {
			return err
		}
		if err := s.topicModel.SetAcceptedReply(ctx, tx, topicID, replyID); err != nil {
			return err
		}

		if previousAuthorID != 0 {
			err := s.reputation.AppendTx(ctx, tx, previousAuthorID,
				enum.ReputationEventAcceptedAnswerRevoked, -PointsAcceptedAnswer, topic.AcceptedReplyID)
			if err != nil {
				return err
			}
		}

		return s.reputation.AppendTx(ctx, tx, reply.AuthorID,
			enum.ReputationEventAcceptedAnswer, PointsAcceptedAnswer, replyID)
	})
	if err != nil {
		return fmt.Errorf("failed to accept answer: %w", err)
	}

	replyAuthorID := reply.AuthorID
	s.runner.Go("answer_accepted", func(ctx context.Context) {
		s.notification.Notify(ctx, &types.Notification{
			RecipientID: replyAuthorID,
			ActorID:     actorID,
			Type:        enum.NotificationTypeAcceptedAnswer,
			TargetType:  enum.TargetTypeReply,
			TargetID:    replyID,
			Message:     fmt.Sprintf("Your reply was accepted as the answer to %q", topic.Title),
		})
		s.badges.CheckUser(ctx, replyAuthorID)
	})

	return nil
}

// UnacceptAnswer clears a topic's accepted answer and reverses its award.
func (s *ReplyService) UnacceptAnswer(ctx context.Context, topicID, actorID int64) error {
	topic, err := s.topicModel.GetTopicByID(ctx, topicID)
	if err != nil {
		return err
	}
	if topic.AuthorID != actorID {
		return types.ErrNotTopicAuthor
	}
	if topic.AcceptedReplyID == 0 {
		return nil
	}

	accepted, err := s.model.GetReplyByID(ctx, topic.AcceptedReplyID)
	if err != nil {
		return err
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.ClearAccepted(ctx, tx, topicID); err != nil {
			return err
		}
		if err := s.topicModel.SetAcceptedReply(ctx, tx, topicID, 0); err != nil {
			return err
		}
		return s.reputation.AppendTx(ctx, tx, accepted.AuthorID,
			enum.ReputationEventAcceptedAnswerRevoked, -PointsAcceptedAnswer, accepted.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to unaccept answer: %w", err)
	}

	return nil
}

// afterCreate runs the background side effects of a new reply:
// reputation award, notifications to the topic author, parent reply
// author and mentioned users, and badge rechecks.
func (s *ReplyService) afterCreate(reply *types.Reply, topic *types.Topic, parentAuthorID int64) {
	replyID, authorID := reply.ID, reply.AuthorID
	mentions := reply.Mentions

	s.runner.Go("reply_created", func(ctx context.Context) {
		s.reputation.Award(ctx, authorID, enum.ReputationEventReplyCreated, PointsReplyCreated, replyID)

		s.notification.Notify(ctx, &types.Notification{
			RecipientID: topic.AuthorID,
			ActorID:     authorID,
			Type:        enum.NotificationTypeReplyToTopic,
			TargetType:  enum.TargetTypeTopic,
			TargetID:    topic.ID,
			Message:     fmt.Sprintf("New reply on %q", topic.Title),
		})

		if parentAuthorID != 0 {
			s.notification.Notify(ctx, &types.Notification{
				RecipientID: parentAuthorID,
				ActorID:     authorID,
				Type:        enum.NotificationTypeReplyToReply,
				TargetType:  enum.TargetTypeReply,
				TargetID:    replyID,
				Message:     "Someone replied to your reply",
			})
		}

		s.notifyMentions(ctx, mentions, authorID, replyID, topic.Title)
	})
}

func (s *ReplyService) notifyMentions(ctx context.Context, mentions []string, actorID, replyID int64, topicTitle string) {
	if len(mentions) == 0 {
		return
	}

	users, err := s.userModel.GetUsersByUsernames(ctx, mentions)
	if err != nil {
		s.logger.Error("Failed to resolve mentioned users",
			zap.Error(err),
			zap.Strings("mentions", mentions))
		return
	}

	for _, user := range users {
		s.notification.Notify(ctx, &types.Notification{
			RecipientID: user.ID,
			ActorID:     actorID,
			Type:        enum.NotificationTypeMention,
			TargetType:  enum.TargetTypeReply,
			TargetID:    replyID,
			Message:     fmt.Sprintf("You were mentioned in a reply on %q", topicTitle),
		})
	}
}
