package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// BadgeHandler handles badge endpoints.
type BadgeHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewBadgeHandler creates a new badge handler.
func NewBadgeHandler(db database.Client, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{
		db:     db,
		logger: logger,
	}
}

// List returns the badge catalog.
func (h *BadgeHandler) List(w http.ResponseWriter, req bunrouter.Request) error {
	badges, err := h.db.Service().Badge().List(req.Context())
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, badges)
}

// ListForUser returns the badges a user has earned.
func (h *BadgeHandler) ListForUser(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	badges, err := h.db.Service().Badge().ListForUser(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, badges)
}

// Recheck re-evaluates the requesting user's badge qualifications in the
// background.
func (h *BadgeHandler) Recheck(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())
	h.db.Service().Badge().CheckUser(req.Context(), user.ID)

	return writeOK(w, nil)
}
