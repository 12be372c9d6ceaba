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

// ReportHandler handles content report endpoints.
type ReportHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(db database.Client, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		db:     db,
		logger: logger,
	}
}

// Create files a report against a topic or reply.
func (h *ReportHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.CreateReportRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	report, err := h.db.Service().Report().Create(req.Context(), service.CreateReportParams{
		ReporterID:     user.ID,
		ReportableType: enum.TargetType(body.ReportableType),
		ReportableID:   body.ReportableID,
		Reason:         enum.ReportReason(body.Reason),
		Details:        body.Details,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, report)
}

// Queue returns open reports grouped by content, most-reported first.
func (h *ReportHandler) Queue(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	entries, err := h.db.Service().Report().
		Queue(req.Context(), user, queryInt(req, "limit", 25), queryInt(req, "offset", 0))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, entries)
}

// ListByContent returns the open reports against one piece of content.
func (h *ReportHandler) ListByContent(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	targetID := queryInt64(req, "targetId")
	if targetID < 1 {
		return writeFail(w, http.StatusBadRequest, "invalid targetId")
	}

	reports, err := h.db.Service().Report().ListByContent(
		req.Context(), user, enum.TargetType(req.URL.Query().Get("targetType")), targetID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, reports)
}

// MarkReviewing claims a report for review.
func (h *ReportHandler) MarkReviewing(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Report().MarkReviewing(req.Context(), user, id); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// Resolve finalizes a report.
func (h *ReportHandler) Resolve(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ResolveReportRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Report().
		Resolve(req.Context(), user, id, enum.ReportStatus(body.Resolution)); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}
