package rest

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/redis"
	"github.com/agorahq/agora/internal/rest/handler"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	"github.com/agorahq/agora/internal/rest/middleware/header"
	"github.com/agorahq/agora/internal/rest/middleware/ip"
	"github.com/agorahq/agora/internal/rest/middleware/ratelimit"
	"github.com/agorahq/agora/internal/setup/config"
	"github.com/klauspost/compress/gzhttp"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Server implements the forum REST API service.
type Server struct {
	categoryHandler     *handler.CategoryHandler
	topicHandler        *handler.TopicHandler
	replyHandler        *handler.ReplyHandler
	voteHandler         *handler.VoteHandler
	reputationHandler   *handler.ReputationHandler
	moderationHandler   *handler.ModerationHandler
	reportHandler       *handler.ReportHandler
	pollHandler         *handler.PollHandler
	searchHandler       *handler.SearchHandler
	leaderboardHandler  *handler.LeaderboardHandler
	badgeHandler        *handler.BadgeHandler
	notificationHandler *handler.NotificationHandler
	userHandler         *handler.UserHandler
}

// NewServer creates a new REST API server.
func NewServer(
	db database.Client, sessions *redis.SessionStore, logger *zap.Logger, config *config.Config,
) http.Handler {
	// Create server instance with handlers
	server := &Server{
		categoryHandler:     handler.NewCategoryHandler(db, logger),
		topicHandler:        handler.NewTopicHandler(db, logger),
		replyHandler:        handler.NewReplyHandler(db, logger),
		voteHandler:         handler.NewVoteHandler(db, logger),
		reputationHandler:   handler.NewReputationHandler(db, logger),
		moderationHandler:   handler.NewModerationHandler(db, logger),
		reportHandler:       handler.NewReportHandler(db, logger),
		pollHandler:         handler.NewPollHandler(db, logger),
		searchHandler:       handler.NewSearchHandler(db, logger),
		leaderboardHandler:  handler.NewLeaderboardHandler(db, logger),
		badgeHandler:        handler.NewBadgeHandler(db, logger),
		notificationHandler: handler.NewNotificationHandler(db, logger),
		userHandler:         handler.NewUserHandler(db, logger),
	}

	// Create middleware instances
	headerMiddleware := header.New(logger)
	ipMiddleware := ip.New(logger, &config.IP)
	rateLimiter := ratelimit.New(&config.RateLimit, logger)
	authMiddleware := auth.New(sessions, db, logger)

	// Create base router
	router := bunrouter.New()

	// Create API routes group
	router.Use(
		headerMiddleware.AsRESTMiddleware,
		ipMiddleware.AsRESTMiddleware,
		rateLimiter.AsRESTMiddleware,
		authMiddleware.Authenticate,
	).WithGroup("/v1", func(g *bunrouter.Group) {
		server.registerPublicRoutes(g)
		server.registerAuthedRoutes(g.Use(authMiddleware.RequireAuth))
		server.registerWriteRoutes(g.Use(authMiddleware.RequireActive))
	})

	// Add gzip compression
	return gzhttp.GzipHandler(router)
}

// registerPublicRoutes mounts endpoints that work without a session.
func (s *Server) registerPublicRoutes(g *bunrouter.Group) {
	// Categories
	g.GET("/categories", s.categoryHandler.Tree)
	g.GET("/categories/slug/:slug", s.categoryHandler.GetBySlug)
	g.GET("/categories/:id/moderators", s.categoryHandler.ListModerators)

	// Topics
	g.GET("/topics", s.topicHandler.ListTopics)
	g.GET("/topics/:id", s.topicHandler.GetTopic)
	g.GET("/topics/slug/:slug", s.topicHandler.GetTopicBySlug)
	g.GET("/topics/:id/replies", s.replyHandler.ListTopicReplies)
	g.GET("/topics/:id/poll", s.pollHandler.GetByTopic)
	g.GET("/replies/:id/edits", s.replyHandler.ListEdits)
	g.GET("/polls/:id/results", s.pollHandler.Results)

	// Users and badges
	g.GET("/profiles/:username", s.userHandler.GetProfile)
	g.GET("/users/:id/replies", s.userHandler.ListReplies)
	g.GET("/users/:id/badges", s.badgeHandler.ListForUser)
	g.GET("/badges", s.badgeHandler.List)

	// Leaderboards and search
	g.GET("/leaderboards/:board", s.leaderboardHandler.Top)
	g.GET("/search", s.searchHandler.Search)
	g.GET("/search/suggest", s.searchHandler.Suggest)
}

// registerAuthedRoutes mounts read endpoints that need a session but stay
// available to suspended accounts.
func (s *Server) registerAuthedRoutes(g *bunrouter.Group) {
	// Own activity
	g.GET("/topics/drafts", s.topicHandler.ListDrafts)
	g.GET("/votes/me", s.voteHandler.History)
	g.GET("/reputation/me", s.reputationHandler.Summary)
	g.GET("/reputation/me/history", s.reputationHandler.History)
	g.GET("/leaderboards/:board/me", s.leaderboardHandler.UserRank)
	g.POST("/badges/recheck", s.badgeHandler.Recheck)

	// Notifications
	g.GET("/notifications", s.notificationHandler.List)
	g.GET("/notifications/unread_count", s.notificationHandler.UnreadCount)
	g.POST("/notifications/:id/read", s.notificationHandler.MarkRead)
	g.POST("/notifications/read_all", s.notificationHandler.MarkAllRead)
	g.GET("/notifications/prefs", s.notificationHandler.GetPrefs)
	g.PUT("/notifications/prefs", s.notificationHandler.UpdatePrefs)

	// Search history and saved searches
	g.GET("/search/history", s.searchHandler.History)
	g.DELETE("/search/history", s.searchHandler.ClearHistory)
	g.GET("/search/saved", s.searchHandler.ListSavedSearches)
	g.POST("/search/saved", s.searchHandler.SaveSearch)
	g.DELETE("/search/saved/:id", s.searchHandler.DeleteSavedSearch)
}

// registerWriteRoutes mounts endpoints that create or modify content.
// Suspended accounts are rejected; role checks happen in the services.
func (s *Server) registerWriteRoutes(g *bunrouter.Group) {
	// Topics and replies
	g.POST("/topics", s.topicHandler.CreateTopic)
	g.PATCH("/topics/:id", s.topicHandler.UpdateTopic)
	g.POST("/topics/:id/archive", s.topicHandler.ArchiveTopic)
	g.POST("/topics/:id/replies", s.replyHandler.CreateReply)
	g.PATCH("/replies/:id", s.replyHandler.EditReply)
	g.DELETE("/replies/:id", s.replyHandler.DeleteReply)
	g.POST("/topics/:id/accept/:replyId", s.replyHandler.AcceptAnswer)
	g.DELETE("/topics/:id/accept", s.replyHandler.UnacceptAnswer)

	// Voting
	g.POST("/topics/:id/vote", s.voteHandler.VoteTopic)
	g.POST("/replies/:id/vote", s.voteHandler.VoteReply)

	// Polls
	g.POST("/polls", s.pollHandler.Create)
	g.PUT("/polls/:id", s.pollHandler.Update)
	g.POST("/polls/:id/vote", s.pollHandler.Vote)
	g.GET("/polls/:id/voters", s.pollHandler.Voters)

	// Reports
	g.POST("/reports", s.reportHandler.Create)
	g.GET("/reports/queue", s.reportHandler.Queue)
	g.GET("/reports/content", s.reportHandler.ListByContent)
	g.POST("/reports/:id/reviewing", s.reportHandler.MarkReviewing)
	g.PUT("/reports/:id/resolve", s.reportHandler.Resolve)

	// Topic moderation
	g.POST("/topics/:id/pin", s.moderationHandler.PinTopic)
	g.POST("/topics/:id/lock", s.moderationHandler.LockTopic)
	g.PUT("/topics/:id/move", s.moderationHandler.MoveTopic)
	g.POST("/topics/:id/merge", s.moderationHandler.MergeTopics)
	g.DELETE("/topics/:id", s.moderationHandler.HardDeleteTopic)

	// User moderation
	g.POST("/users/:id/warn", s.moderationHandler.WarnUser)
	g.POST("/users/:id/suspend", s.moderationHandler.SuspendUser)
	g.POST("/users/:id/ban", s.moderationHandler.BanUser)
	g.POST("/users/:id/unban", s.moderationHandler.UnbanUser)
	g.GET("/users/:id/warnings", s.moderationHandler.ListWarnings)
	g.GET("/moderation/logs", s.moderationHandler.ListLogs)

	// Category administration
	g.POST("/categories", s.categoryHandler.Create)
	g.PATCH("/categories/:id", s.categoryHandler.Update)
	g.PUT("/categories/:id/active", s.categoryHandler.SetActive)
	g.POST("/categories/:id/moderators", s.categoryHandler.AssignModerator)
	g.DELETE("/categories/:id/moderators/:userId", s.categoryHandler.RemoveModerator)
}
