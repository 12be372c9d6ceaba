package database

import (
	"github.com/agorahq/agora/internal/async"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	user         *service.UserService
	category     *service.CategoryService
	topic        *service.TopicService
	reply        *service.ReplyService
	vote         *service.VoteService
	reputation   *service.ReputationService
	moderation   *service.ModerationService
	report       *service.ReportService
	poll         *service.PollService
	search       *service.SearchService
	leaderboard  *service.LeaderboardService
	badge        *service.BadgeService
	notification *service.NotificationService
}

// NewService creates a new service instance with all services.
func NewService(
	db *bun.DB, repository *Repository, quota service.VoteQuota,
	views service.ViewCounter, runner *async.Runner, spamKeywords []string,
	logger *zap.Logger,
) *Service {
	reputation := service.NewReputation(repository.Reputation(), logger)
	notification := service.NewNotification(repository.Notification(), logger)
	badge := service.NewBadge(
		repository.Badge(), repository.User(), repository.Topic(),
		repository.Reply(), repository.Vote(), notification, logger)

	return &Service{
		user:     service.NewUser(repository.User(), reputation, badge, logger),
		category: service.NewCategory(repository.Category(), logger),
		topic: service.NewTopic(
			db, repository.Topic(), repository.Category(), reputation, badge,
			views, runner, spamKeywords, logger),
		reply: service.NewReply(
			db, repository.Reply(), repository.Topic(), repository.User(),
			reputation, notification, badge, runner, logger),
		vote: service.NewVote(
			db, repository.Vote(), repository.Topic(), repository.Reply(),
			reputation, quota, logger),
		reputation: reputation,
		moderation: service.NewModeration(
			db, repository.Moderation(), repository.User(), repository.Topic(),
			repository.Reply(), repository.Vote(), repository.Poll(),
			repository.Category(), reputation, notification, runner, logger),
		report: service.NewReport(
			repository.Report(), repository.Topic(), repository.Reply(),
			repository.User(), notification, runner, logger),
		poll:         service.NewPoll(repository.Poll(), repository.Topic(), logger),
		search:       service.NewSearch(repository.Search(), runner, logger),
		leaderboard:  service.NewLeaderboard(repository.Leaderboard(), logger),
		badge:        badge,
		notification: notification,
	}
}

// User returns the user service.
func (s *Service) User() *service.UserService {
	return s.user
}

// Category returns the category service.
func (s *Service) Category() *service.CategoryService {
	return s.category
}

// Topic returns the topic service.
func (s *Service) Topic() *service.TopicService {
	return s.topic
}

// Reply returns the reply service.
func (s *Service) Reply() *service.ReplyService {
	return s.reply
}

// Vote returns the vote service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Reputation returns the reputation service.
func (s *Service) Reputation() *service.ReputationService {
	return s.reputation
}

// Moderation returns the moderation service.
func (s *Service) Moderation() *service.ModerationService {
	return s.moderation
}

// Report returns the report service.
func (s *Service) Report() *service.ReportService {
	return s.report
}

// Poll returns the poll service.
func (s *Service) Poll() *service.PollService {
	return s.poll
}

// Search returns the search service.
func (s *Service) Search() *service.SearchService {
	return s.search
}

// Leaderboard returns the leaderboard service.
func (s *Service) Leaderboard() *service.LeaderboardService {
	return s.leaderboard
}

// Badge returns the badge service.
func (s *Service) Badge() *service.BadgeService {
	return s.badge
}

// Notification returns the notification service.
func (s *Service) Notification() *service.NotificationService {
	return s.notification
}
