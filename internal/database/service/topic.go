package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/pkg/utils"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ViewCounter deduplicates topic views per viewer within a window.
type ViewCounter interface {
	// Mark records a view and reports whether it is the viewer's first
	// for this topic within the dedup window.
	Mark(ctx context.Context, topicID int64, viewerKey string) (bool, error)
}

// ContainsSpamKeyword reports whether text matches any of the configured
// spam keywords, case-insensitively.
func ContainsSpamKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// CreateTopicParams carries the inputs for creating a topic.
type CreateTopicParams struct {
	Title       string
	Content     string
	AuthorID    int64
	CategoryID  int64
	Type        enum.TopicType
	Tags        []string
	Attachments []string
	IsDraft     bool
}

// UpdateTopicParams carries the inputs for editing a topic.
type UpdateTopicParams struct {
	Title   string
	Content string
	Tags    []string
	Publish bool
}

// TopicService handles topic business logic.
type TopicService struct {
	db            *bun.DB
	model         *models.TopicModel
	categoryModel *models.CategoryModel
	reputation    *ReputationService
	badges        *BadgeService
	views         ViewCounter
	runner        *async.Runner
	spamKeywords  []string
	logger        *zap.Logger
}

// NewTopic creates a new topic service.
func NewTopic(
	db *bun.DB, model *models.TopicModel, categoryModel *models.CategoryModel,
	reputation *ReputationService, badges *BadgeService, views ViewCounter,
	runner *async.Runner, spamKeywords []string, logger *zap.Logger,
) *TopicService {
	return &TopicService{
		db:            db,
		model:         model,
		categoryModel: categoryModel,
		reputation:    reputation,
		badges:        badges,
		views:         views,
		runner:        runner,
		spamKeywords:  spamKeywords,
		logger:        logger.Named("topic_service"),
	}
}

// CreateTopic validates and creates a topic. Published topics award
// reputation and refresh the category counter in the background.
func (s *TopicService) CreateTopic(ctx context.Context, params CreateTopicParams) (*types.Topic, error) {
	if err := validateTopicContent(params.Title, params.Content, params.Type); err != nil {
		return nil, err
	}
	if len(params.Tags) > types.MaxTopicTags {
		return nil, types.ErrTooManyTags
	}
	if len(params.Attachments) > types.MaxTopicAttachments {
		return nil, types.ErrTooManyAttachments
	}

	category, err := s.categoryModel.GetCategoryByID(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, types.ErrCategoryInactive
	}

	slug, err := s.resolveSlug(ctx, params.Title)
	if err != nil {
		return nil, err
	}

	topic := &types.Topic{
		Title:       params.Title,
		Slug:        slug,
		Content:     params.Content,
		AuthorID:    params.AuthorID,
		CategoryID:  params.CategoryID,
		Type:        params.Type,
		Status:      enum.TopicStatusActive,
		Tags:        params.Tags,
		Attachments: params.Attachments,
		IsDraft:     params.IsDraft,
		IsFlagged:   ContainsSpamKeyword(params.Title+" "+params.Content, s.spamKeywords),
	}

	if err := s.model.CreateTopic(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	if !topic.IsDraft {
		s.afterPublish(topic)
	}

	return topic, nil
}

// GetTopic retrieves a topic by ID. Drafts are only visible to their
// author; views are counted in the background, deduplicated per viewer.
func (s *TopicService) GetTopic(ctx context.Context, id, viewerID int64) (*types.Topic, error) {
	topic, err := s.model.GetTopicByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visibleTopic(topic, viewerID)
}

// GetTopicBySlug retrieves a topic by slug with the same visibility rules.
func (s *TopicService) GetTopicBySlug(ctx context.Context, slug string, viewerID int64) (*types.Topic, error) {
	topic, err := s.model.GetTopicBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.visibleTopic(topic, viewerID)
}

// List retrieves a page of topics with cursor pagination.
func (s *TopicService) List(ctx context.Context, params models.TopicListParams) ([]*types.Topic, *types.TopicCursor, error) {
	if !params.Sort.Valid() {
		params.Sort = enum.TopicSortNewest
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	topics, next, err := s.model.ListTopics(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, next, nil
}

// ListDrafts retrieves a user's unpublished drafts.
func (s *TopicService) ListDrafts(ctx context.Context, authorID int64) ([]*types.Topic, error) {
	drafts, err := s.model.ListDrafts(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// UpdateTopic edits a topic. Authors always may; others need the
// moderator role or enough reputation to edit others' content.
// Publishing a draft awards the creation reputation at publish time.
func (s *TopicService) UpdateTopic(
	ctx context.Context, id, editorID int64, role enum.UserRole, params UpdateTopicParams,
) (*types.Topic, error) {
	topic, err := s.model.GetTopicByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic.IsLocked && !role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrTopicLocked
	}

	if topic.AuthorID != editorID && !role.AtLeast(enum.UserRoleModerator) {
		total, err := s.reputation.Total(ctx, editorID)
		if err != nil {
			return nil, err
		}
		if total < MinEditOthersReputation {
			return nil, types.ErrNotTopicAuthor
		}
	}

	if err := validateTopicContent(params.Title, params.Content, topic.Type); err != nil {
		return nil, err
	}
	if len(params.Tags) > types.MaxTopicTags {
		return nil, types.ErrTooManyTags
	}

	publishing := topic.IsDraft && params.Publish && topic.AuthorID == editorID

	topic.Title = params.Title
	topic.Content = params.Content
	topic.Tags = params.Tags
	topic.IsFlagged = ContainsSpamKeyword(params.Title+" "+params.Content, s.spamKeywords)
	if publishing {
		topic.IsDraft = false
	}

	if err := s.model.UpdateTopic(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}

	if publishing {
		s.afterPublish(topic)
	}

	return topic, nil
}

// ArchiveTopic soft-deletes a topic. Authors may archive their own;
// moderators and admins may archive any.
func (s *TopicService) ArchiveTopic(ctx context.Context, id, actorID int64, role enum.UserRole) error {
	topic, err := s.model.GetTopicByID(ctx, id)
	if err != nil {
		return err
	}
	if topic.AuthorID != actorID && !role.AtLeast(enum.UserRoleModerator) {
		return types.ErrNotTopicAuthor
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.model.ArchiveTopic(ctx, tx, id); err != nil {
			return err
		}
		return s.categoryModel.RecountTopics(ctx, tx, topic.CategoryID)
	})
	if err != nil {
		return fmt.Errorf("failed to archive topic: %w", err)
	}

	return nil
}

// visibleTopic hides drafts from everyone but their author and kicks off
// background view counting for published topics.
func (s *TopicService) visibleTopic(topic *types.Topic, viewerID int64) (*types.Topic, error) {
	if topic.IsDraft {
		if topic.AuthorID != viewerID {
			return nil, types.ErrTopicNotFound
		}
		return topic, nil
	}

	if viewerID != 0 {
		topicID := topic.ID
		s.runner.Go("count_view", func(ctx context.Context) {
			s.countView(ctx, topicID, viewerID)
		})
	}

	return topic, nil
}

func (s *TopicService) countView(ctx context.Context, topicID, viewerID int64) {
	first, err := s.views.Mark(ctx, topicID, fmt.Sprintf("u%d", viewerID))
	if err != nil {
		s.logger.Error("Failed to mark topic view",
			zap.Error(err),
			zap.Int64("topicID", topicID))
		return
	}
	if !first {
		return
	}

	if err := s.model.AddViewCount(ctx, topicID, 1); err != nil {
		s.logger.Error("Failed to increment view count",
			zap.Error(err),
			zap.Int64("topicID", topicID))
	}
}

// afterPublish runs the background side effects of a topic going live.
func (s *TopicService) afterPublish(topic *types.Topic) {
	authorID, topicID, categoryID := topic.AuthorID, topic.ID, topic.CategoryID

	s.runner.Go("topic_published", func(ctx context.Context) {
		s.reputation.Award(ctx, authorID, enum.ReputationEventTopicCreated, PointsTopicCreated, topicID)

		if err := s.categoryModel.RecountTopics(ctx, s.db, categoryID); err != nil {
			s.logger.Error("Failed to recount category topics",
				zap.Error(err),
				zap.Int64("categoryID", categoryID))
		}

		s.badges.CheckUser(ctx, authorID)
	})
}

// resolveSlug slugifies the title, appending a random suffix on collision.
func (s *TopicService) resolveSlug(ctx context.Context, title string) (string, error) {
	slug := utils.Slugify(title)

	exists, err := s.model.SlugExists(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		slug = utils.SlugWithSuffix(slug)
	}

	return slug, nil
}

func validateTopicContent(title, content string, topicType enum.TopicType) error {
	if len(title) < types.TitleMinLength || len(title) > types.TitleMaxLength {
		return types.ErrTitleLength
	}
	if len(content) < types.TopicContentMinLength || len(content) > types.TopicContentMaxLength {
		return types.ErrContentLength
	}
	if !topicType.Valid() {
		return types.ErrInvalidTopicType
	}
	return nil
}
