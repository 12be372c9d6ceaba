package database

import (
	"github.com/agorahq/agora/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	user         *models.UserModel
	category     *models.CategoryModel
	topic        *models.TopicModel
	reply        *models.ReplyModel
	vote         *models.VoteModel
	reputation   *models.ReputationModel
	moderation   *models.ModerationModel
	report       *models.ReportModel
	poll         *models.PollModel
	badge        *models.BadgeModel
	notification *models.NotificationModel
	search       *models.SearchModel
	leaderboard  *models.LeaderboardModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		user:         models.NewUser(db, logger),
		category:     models.NewCategory(db, logger),
		topic:        models.NewTopic(db, logger),
		reply:        models.NewReply(db, logger),
		vote:         models.NewVote(db, logger),
		reputation:   models.NewReputation(db, logger),
		moderation:   models.NewModeration(db, logger),
		report:       models.NewReport(db, logger),
		poll:         models.NewPoll(db, logger),
		badge:        models.NewBadge(db, logger),
		notification: models.NewNotification(db, logger),
		search:       models.NewSearch(db, logger),
		leaderboard:  models.NewLeaderboard(db, logger),
	}
}

// User returns the user model repository.
func (r *Repository) User() *models.UserModel {
	return r.user
}

// Category returns the category model repository.
func (r *Repository) Category() *models.CategoryModel {
	return r.category
}

// Topic returns the topic model repository.
func (r *Repository) Topic() *models.TopicModel {
	return r.topic
}

// Reply returns the reply model repository.
func (r *Repository) Reply() *models.ReplyModel {
	return r.reply
}

// Vote returns the vote model repository.
func (r *Repository) Vote() *models.VoteModel {
	return r.vote
}

// Reputation returns the reputation model repository.
func (r *Repository) Reputation() *models.ReputationModel {
	return r.reputation
}

// Moderation returns the moderation model repository.
func (r *Repository) Moderation() *models.ModerationModel {
	return r.moderation
}

// Report returns the report model repository.
func (r *Repository) Report() *models.ReportModel {
	return r.report
}

// Poll returns the poll model repository.
func (r *Repository) Poll() *models.PollModel {
	return r.poll
}

// Badge returns the badge model repository.
func (r *Repository) Badge() *models.BadgeModel {
	return r.badge
}

// Notification returns the notification model repository.
func (r *Repository) Notification() *models.NotificationModel {
	return r.notification
}

// Search returns the search model repository.
func (r *Repository) Search() *models.SearchModel {
	return r.search
}

// Leaderboard returns the leaderboard model repository.
func (r *Repository) Leaderboard() *models.LeaderboardModel {
	return r.leaderboard
}
