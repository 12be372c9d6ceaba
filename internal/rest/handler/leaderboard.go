package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// LeaderboardHandler handles leaderboard endpoints.
type LeaderboardHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(db database.Client, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		db:     db,
		logger: logger,
	}
}

// Top returns the highest-ranked users on a board.
func (h *LeaderboardHandler) Top(w http.ResponseWriter, req bunrouter.Request) error {
	entries, err := h.db.Service().Leaderboard().Top(
		req.Context(),
		enum.LeaderboardBoard(req.Param("board")),
		enum.LeaderboardPeriod(req.URL.Query().Get("period")),
		queryInt(req, "limit", 25),
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, entries)
}

// UserRank returns the requesting user's standing on a board.
func (h *LeaderboardHandler) UserRank(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	rank, value, err := h.db.Service().Leaderboard().UserRank(
		req.Context(), user.ID,
		enum.LeaderboardBoard(req.Param("board")),
		enum.LeaderboardPeriod(req.URL.Query().Get("period")),
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, restTypes.UserRankEntry{Rank: rank, Value: value})
}
