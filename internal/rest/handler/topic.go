package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/models"
	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// TopicHandler handles topic-related REST endpoints.
type TopicHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewTopicHandler creates a new topic handler.
func NewTopicHandler(db database.Client, logger *zap.Logger) *TopicHandler {
	return &TopicHandler{
		db:     db,
		logger: logger,
	}
}

// CreateTopic creates a new topic or draft.
func (h *TopicHandler) CreateTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.CreateTopicRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	topic, err := h.db.Service().Topic().CreateTopic(req.Context(), service.CreateTopicParams{
		Title:       body.Title,
		Content:     body.Content,
		AuthorID:    user.ID,
		CategoryID:  body.CategoryID,
		Type:        enum.TopicType(body.Type),
		Tags:        body.Tags,
		Attachments: body.Attachments,
		IsDraft:     body.IsDraft,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, topic)
}

// GetTopic retrieves a topic by ID.
func (h *TopicHandler) GetTopic(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	topic, err := h.db.Service().Topic().GetTopic(req.Context(), id, viewerID(req))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, topic)
}

// GetTopicBySlug retrieves a topic by its slug.
func (h *TopicHandler) GetTopicBySlug(w http.ResponseWriter, req bunrouter.Request) error {
	topic, err := h.db.Service().Topic().GetTopicBySlug(req.Context(), req.Param("slug"), viewerID(req))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, topic)
}

// ListTopics lists topics with filters, sort and cursor pagination.
func (h *TopicHandler) ListTopics(w http.ResponseWriter, req bunrouter.Request) error {
	cursor, err := restTypes.DecodeTopicCursor(req.URL.Query().Get("cursor"))
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	topics, next, err := h.db.Service().Topic().List(req.Context(), models.TopicListParams{
		CategoryID: queryInt64(req, "categoryId"),
		Type:       enum.TopicType(req.URL.Query().Get("type")),
		Tag:        req.URL.Query().Get("tag"),
		AuthorID:   queryInt64(req, "authorId"),
		Sort:       enum.TopicSort(req.URL.Query().Get("sort")),
		Cursor:     cursor,
		Limit:      queryInt(req, "limit", 0),
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, restTypes.TopicPage{
		Topics:     topics,
		NextCursor: restTypes.EncodeTopicCursor(next),
	})
}

// ListDrafts lists the requesting user's drafts.
func (h *TopicHandler) ListDrafts(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	drafts, err := h.db.Service().Topic().ListDrafts(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, drafts)
}

// UpdateTopic edits a topic, optionally publishing a draft.
func (h *TopicHandler) UpdateTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.UpdateTopicRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	topic, err := h.db.Service().Topic().UpdateTopic(req.Context(), id, user.ID, user.Role, service.UpdateTopicParams{
		Title:   body.Title,
		Content: body.Content,
		Tags:    body.Tags,
		Publish: body.Publish,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, topic)
}

// ArchiveTopic soft-deletes a topic.
func (h *TopicHandler) ArchiveTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Topic().ArchiveTopic(req.Context(), id, user.ID, user.Role); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// viewerID returns the authenticated user's ID, zero for anonymous.
func viewerID(req bunrouter.Request) int64 {
	if user := auth.FromContext(req.Context()); user != nil {
		return user.ID
	}
	return 0
}
