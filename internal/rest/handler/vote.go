package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// VoteHandler handles voting endpoints.
type VoteHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(db database.Client, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		db:     db,
		logger: logger,
	}
}

// VoteTopic casts, switches or removes a vote on a topic.
func (h *VoteHandler) VoteTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.VoteRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	result, err := h.db.Service().Vote().CastTopicVote(req.Context(), id, user.ID, body.Vote)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, result)
}

// VoteReply casts, switches or removes a vote on a reply.
func (h *VoteHandler) VoteReply(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.VoteRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	result, err := h.db.Service().Vote().CastReplyVote(req.Context(), id, user.ID, body.Vote)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, result)
}

// History returns the requesting user's voting history.
func (h *VoteHandler) History(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	records, err := h.db.Service().Vote().
		History(req.Context(), user.ID, queryInt(req, "limit", 50), queryInt(req, "offset", 0))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, records)
}
