package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/types"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	restTypes "github.com/agorahq/agora/internal/rest/types"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(db database.Client, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		db:     db,
		logger: logger,
	}
}

// List returns a page of the requesting user's notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	notifications, err := h.db.Service().Notification().List(
		req.Context(), user.ID,
		req.URL.Query().Get("unread") == "true",
		queryInt(req, "limit", 25), queryInt(req, "offset", 0),
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, notifications)
}

// UnreadCount returns the requesting user's unread notification count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	count, err := h.db.Service().Notification().UnreadCount(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, map[string]int{"count": count})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Notification().MarkRead(req.Context(), id, user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// MarkAllRead marks every unread notification as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	updated, err := h.db.Service().Notification().MarkAllRead(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, map[string]int64{"updated": updated})
}

// GetPrefs returns the requesting user's notification preferences.
func (h *NotificationHandler) GetPrefs(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	prefs, err := h.db.Service().Notification().GetPrefs(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, prefs)
}

// UpdatePrefs replaces the requesting user's notification preferences.
func (h *NotificationHandler) UpdatePrefs(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.UpdatePrefsRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	prefs := &types.NotificationPrefs{
		UserID:        user.ID,
		DisabledTypes: body.DisabledTypes,
		DNDEnabled:    body.DNDEnabled,
		DNDStartHour:  body.DNDStartHour,
		DNDEndHour:    body.DNDEndHour,
	}
	if err := h.db.Service().Notification().UpdatePrefs(req.Context(), prefs); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, prefs)
}
