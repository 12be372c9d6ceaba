package handler

import (
	"net/http"
	"time"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ModerationHandler handles moderation endpoints.
type ModerationHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(db database.Client, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{
		db:     db,
		logger: logger,
	}
}

// PinTopic pins or unpins a topic.
func (h *ModerationHandler) PinTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.PinRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().PinTopic(req.Context(), user, id, body.IsPinned, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// LockTopic locks or unlocks a topic.
func (h *ModerationHandler) LockTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.LockRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().LockTopic(req.Context(), user, id, body.IsLocked, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// MoveTopic relocates a topic to another category.
func (h *ModerationHandler) MoveTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.MoveRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().MoveTopic(req.Context(), user, id, body.CategoryID, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// MergeTopics merges a topic's replies into another topic.
func (h *ModerationHandler) MergeTopics(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.MergeRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().
		MergeTopics(req.Context(), user, id, body.TargetTopicID, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// HardDeleteTopic permanently removes a topic and its replies. Admin only.
func (h *ModerationHandler) HardDeleteTopic(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ReasonRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().HardDeleteTopic(req.Context(), user, id, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// WarnUser issues a formal warning to a user.
func (h *ModerationHandler) WarnUser(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ReasonRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().WarnUser(req.Context(), user, id, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// SuspendUser temporarily suspends a user from posting.
func (h *ModerationHandler) SuspendUser(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.SuspendRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().SuspendUser(req.Context(), user, id, body.Days, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// BanUser permanently bans a user. Admin only.
func (h *ModerationHandler) BanUser(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ReasonRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().BanUser(req.Context(), user, id, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// UnbanUser lifts a user's ban. Admin only.
func (h *ModerationHandler) UnbanUser(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ReasonRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Moderation().UnbanUser(req.Context(), user, id, body.Reason); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// ListWarnings returns a user's warnings.
func (h *ModerationHandler) ListWarnings(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	warnings, err := h.db.Service().Moderation().ListWarnings(req.Context(), user, id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, warnings)
}

// ListLogs returns the moderation audit trail with filters.
func (h *ModerationHandler) ListLogs(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	filter := types.ModerationLogFilter{
		ModeratorID: queryInt64(req, "moderatorId"),
		Action:      enum.ModerationAction(req.URL.Query().Get("action")),
		TargetType:  enum.TargetType(req.URL.Query().Get("targetType")),
		TargetID:    queryInt64(req, "targetId"),
	}
	if since := req.URL.Query().Get("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return writeFail(w, http.StatusBadRequest, "invalid since")
		}
		filter.Since = parsed
	}
	if until := req.URL.Query().Get("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return writeFail(w, http.StatusBadRequest, "invalid until")
		}
		filter.Until = parsed
	}

	logs, err := h.db.Service().Moderation().
		ListLogs(req.Context(), user, filter, queryInt(req, "limit", 50), queryInt(req, "offset", 0))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, logs)
}
