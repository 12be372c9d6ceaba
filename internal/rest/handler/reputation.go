package handler

import (
	"net/http"

	"github.com/agorahq/agora/internal/database"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/agorahq/agora/internal/rest/middleware/auth"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// ReputationHandler handles reputation endpoints.
type ReputationHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReputationHandler creates a new reputation handler.
func NewReputationHandler(db database.Client, logger *zap.Logger) *ReputationHandler {
	return &ReputationHandler{
		db:     db,
		logger: logger,
	}
}

// Summary returns the requesting user's reputation summary.
func (h *ReputationHandler) Summary(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	summary, err := h.db.Service().Reputation().Summary(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, summary)
}

// History returns a page of the requesting user's reputation ledger,
// optionally filtered by event type.
func (h *ReputationHandler) History(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	entries, err := h.db.Service().Reputation().History(
		req.Context(), user.ID,
		enum.ReputationEvent(req.URL.Query().Get("event")),
		queryInt(req, "limit", 50), queryInt(req, "offset", 0),
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, entries)
}
