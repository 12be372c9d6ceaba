package service

import (
	"context"
	"fmt"

	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"go.uber.org/zap"
)

// MaxReportDetailsLength caps the free-text details on a report.
const MaxReportDetailsLength = 500

// CreateReportParams carries the inputs for filing a report.
type CreateReportParams struct {
	ReporterID     int64
	ReportableType enum.TargetType
	ReportableID   int64
	Reason         enum.ReportReason
	Details        string
}

// ReportService handles report intake and the moderation queue.
type ReportService struct {
	model        *models.ReportModel
	topicModel   *models.TopicModel
	replyModel   *models.ReplyModel
	userModel    *models.UserModel
	notification *NotificationService
	runner       *async.Runner
	logger       *zap.Logger
}

// NewReport creates a new report service.
func NewReport(
	model *models.ReportModel, topicModel *models.TopicModel,
	replyModel *models.ReplyModel, userModel *models.UserModel,
	notification *NotificationService, runner *async.Runner, logger *zap.Logger,
) *ReportService {
	return &ReportService{
		model:        model,
		topicModel:   topicModel,
		replyModel:   replyModel,
		userModel:    userModel,
		notification: notification,
		runner:       runner,
		logger:       logger.Named("report_service"),
	}
}

// Create files a report. The target must exist, self-reports are
// rejected and duplicate reports by the same user surface as a conflict.
func (s *ReportService) Create(ctx context.Context, params CreateReportParams) (*types.Report, error) {
	if !params.Reason.Valid() {
		return nil, types.ErrInvalidReportReason
	}
	if len(params.Details) > MaxReportDetailsLength {
		return nil, types.ErrReportDetailsTooLong
	}

	ownerID, err := s.contentOwner(ctx, params.ReportableType, params.ReportableID)
	if err != nil {
		return nil, err
	}
	if ownerID == params.ReporterID {
		return nil, types.ErrSelfReport
	}

	report := &types.Report{
		ReporterID:     params.ReporterID,
		ReportableType: params.ReportableType,
		ReportableID:   params.ReportableID,
		Reason:         params.Reason,
		Details:        params.Details,
	}
	if err := s.model.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// Queue returns pending reports grouped per content item, most-reported
// first. Entries past the attention threshold are flagged for review;
// no content flag is written from report counts.
func (s *ReportService) Queue(ctx context.Context, actor *types.User, limit, offset int) ([]*types.ReportQueueEntry, error) {
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrNotModerator
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	entries, err := s.model.Queue(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get report queue: %w", err)
	}

	for _, entry := range entries {
		entry.NeedsAttention = entry.PendingCount >= types.AttentionReportCount
	}

	return entries, nil
}

// ListByContent retrieves the open reports against one piece of content.
func (s *ReportService) ListByContent(
	ctx context.Context, actor *types.User, targetType enum.TargetType, targetID int64,
) ([]*types.Report, error) {
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return nil, types.ErrNotModerator
	}

	reports, err := s.model.ListByContent(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// MarkReviewing claims an open report for review.
func (s *ReportService) MarkReviewing(ctx context.Context, actor *types.User, reportID int64) error {
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return types.ErrNotModerator
	}

	if _, err := s.model.GetReportByID(ctx, reportID); err != nil {
		return err
	}

	return s.model.MarkReviewing(ctx, reportID)
}

// Resolve finalizes a report exactly once and notifies the reporter in
// the background.
func (s *ReportService) Resolve(
	ctx context.Context, actor *types.User, reportID int64, resolution enum.ReportStatus,
) error {
	if !actor.Role.AtLeast(enum.UserRoleModerator) {
		return types.ErrNotModerator
	}
	if !resolution.Resolution() {
		return types.ErrInvalidResolution
	}

	report, err := s.model.GetReportByID(ctx, reportID)
	if err != nil {
		return err
	}

	if err := s.model.Resolve(ctx, reportID, actor.ID, resolution); err != nil {
		return err
	}

	actorID := actor.ID
	s.runner.Go("report_resolved", func(ctx context.Context) {
		s.notification.Notify(ctx, &types.Notification{
			RecipientID: report.ReporterID,
			ActorID:     actorID,
			Type:        enum.NotificationTypeReportResolved,
			TargetType:  report.ReportableType,
			TargetID:    report.ReportableID,
			Message:     fmt.Sprintf("Your report was resolved: %s", resolution),
		})
	})

	return nil
}

// contentOwner resolves the author of the reported content, proving the
// target exists along the way.
func (s *ReportService) contentOwner(ctx context.Context, targetType enum.TargetType, targetID int64) (int64, error) {
	switch targetType {
	case enum.TargetTypeTopic:
		topic, err := s.topicModel.GetTopicByID(ctx, targetID)
		if err != nil {
			return 0, err
		}
		return topic.AuthorID, nil
	case enum.TargetTypeReply:
		reply, err := s.replyModel.GetReplyByID(ctx, targetID)
		if err != nil {
			return 0, err
		}
		return reply.AuthorID, nil
	case enum.TargetTypeUser:
		user, err := s.userModel.GetUserByID(ctx, targetID)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	default:
		return 0, types.ErrInvalidReportTarget
	}
}
