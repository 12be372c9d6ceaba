package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ReplyHandler handles reply-related REST endpoints.
type ReplyHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReplyHandler creates a new reply handler.
func NewReplyHandler(db database.Client, logger *zap.Logger) *ReplyHandler {
	return &ReplyHandler{
		db:     db,
		logger: logger,
	}
}

// CreateReply posts a reply to a topic.
func (h *ReplyHandler) CreateReply(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	topicID, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.CreateReplyRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	reply, err := h.db.Service().Reply().CreateReply(req.Context(), service.CreateReplyParams{
		TopicID:       topicID,
		AuthorID:      user.ID,
		Content:       body.Content,
		ParentReplyID: body.ParentReplyID,
		QuotedReplyID: body.QuotedReplyID,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, reply)
}

// ListTopicReplies returns a topic's reply tree.
func (h *ReplyHandler) ListTopicReplies(w http.ResponseWriter, req bunrouter.Request) error {
	topicID, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	sort := enum.ReplySort(req.URL.Query().Get("sort"))

	replies, err := h.db.Service().Reply().ListTopicReplies(req.Context(), topicID, sort)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, replies)
}

// EditReply updates a reply's content.
func (h *ReplyHandler) EditReply(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.EditReplyRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	reply, err := h.db.Service().Reply().EditReply(req.Context(), id, user.ID, user.Role, body.Content)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, reply)
}

// ListEdits returns a reply's edit history.
func (h *ReplyHandler) ListEdits(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	edits, err := h.db.Service().Reply().ListEdits(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, edits)
}

// DeleteReply soft-deletes a reply.
func (h *ReplyHandler) DeleteReply(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Reply().DeleteReply(req.Context(), id, user.ID, user.Role); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// AcceptAnswer marks a reply as the accepted answer to a question topic.
func (h *ReplyHandler) AcceptAnswer(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	topicID, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	replyID, err := paramID(req, "replyId")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Reply().AcceptAnswer(req.Context(), topicID, replyID, user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// UnacceptAnswer clears a question topic's accepted answer.
func (h *ReplyHandler) UnacceptAnswer(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	topicID, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Reply().UnacceptAnswer(req.Context(), topicID, user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}
