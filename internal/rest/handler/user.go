package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// UserHandler handles user profile endpoints.
type UserHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(db database.Client, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		db:     db,
		logger: logger,
	}
}

// GetProfile returns a user's public profile by username.
func (h *UserHandler) GetProfile(w http.ResponseWriter, req bunrouter.Request) error {
	profile, err := h.db.Service().User().GetProfile(req.Context(), req.Param("username"))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, profile)
}

// ListReplies returns a page of a user's replies.
func (h *UserHandler) ListReplies(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	replies, err := h.db.Service().Reply().
		ListByAuthor(req.Context(), id, queryInt(req, "limit", 25), queryInt(req, "offset", 0))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, replies)
}
