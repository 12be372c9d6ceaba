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

// PollHandler handles poll endpoints.
type PollHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewPollHandler creates a new poll handler.
func NewPollHandler(db database.Client, logger *zap.Logger) *PollHandler {
	return &PollHandler{
		db:     db,
		logger: logger,
	}
}

// Create attaches a poll to a topic.
func (h *PollHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.CreatePollRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	poll, err := h.db.Service().Poll().Create(req.Context(), service.CreatePollParams{
		TopicID:    body.TopicID,
		AuthorID:   user.ID,
		Question:   body.Question,
		PollType:   enum.PollType(body.PollType),
		Options:    body.Options,
		MaxChoices: body.MaxChoices,
		Deadline:   body.Deadline,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, poll)
}

// Update reworks a poll that nobody has voted in yet.
func (h *PollHandler) Update(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.UpdatePollRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	poll, err := h.db.Service().Poll().Update(req.Context(), service.UpdatePollParams{
		PollID:   id,
		AuthorID: user.ID,
		Question: body.Question,
		Options:  body.Options,
		Deadline: body.Deadline,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, poll)
}

// GetByTopic returns the poll attached to a topic.
func (h *PollHandler) GetByTopic(w http.ResponseWriter, req bunrouter.Request) error {
	topicID, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	poll, err := h.db.Service().Poll().GetByTopic(req.Context(), topicID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, poll)
}

// Vote records a poll vote.
func (h *PollHandler) Vote(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.PollVoteRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Poll().Vote(req.Context(), id, user.ID, body.OptionIDs); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// Results returns a poll's tallies and percentages.
func (h *PollHandler) Results(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	results, err := h.db.Service().Poll().Results(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, results)
}

// Voters lists who voted for what. Moderator or admin only.
func (h *PollHandler) Voters(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	voters, err := h.db.Service().Poll().Voters(req.Context(), user, id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, voters)
}
