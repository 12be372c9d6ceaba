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

// SearchHandler handles full-text search endpoints.
type SearchHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(db database.Client, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		db:     db,
		logger: logger,
	}
}

// Search runs a ranked full-text search over topics and replies.
func (h *SearchHandler) Search(w http.ResponseWriter, req bunrouter.Request) error {
	query := req.URL.Query()

	filters := types.SearchFilters{
		CategoryID: queryInt64(req, "categoryId"),
		TopicType:  enum.TopicType(query.Get("type")),
		AuthorID:   queryInt64(req, "authorId"),
	}
	if since := query.Get("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return writeFail(w, http.StatusBadRequest, "invalid since")
		}
		filters.Since = parsed
	}
	if until := query.Get("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return writeFail(w, http.StatusBadRequest, "invalid until")
		}
		filters.Until = parsed
	}

	results, err := h.db.Service().Search().Search(
		req.Context(), viewerID(req), query.Get("q"), filters,
		enum.TargetType(query.Get("in")),
		queryInt(req, "limit", 20), queryInt(req, "offset", 0),
	)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, results)
}

// Suggest returns query completions for a prefix.
func (h *SearchHandler) Suggest(w http.ResponseWriter, req bunrouter.Request) error {
	suggestions, err := h.db.Service().Search().
		Suggest(req.Context(), req.URL.Query().Get("q"), queryInt(req, "limit", 10))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, suggestions)
}

// History returns the requesting user's recent searches.
func (h *SearchHandler) History(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	records, err := h.db.Service().Search().History(req.Context(), user.ID, queryInt(req, "limit", 20))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, records)
}

// ClearHistory wipes the requesting user's search history.
func (h *SearchHandler) ClearHistory(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	if err := h.db.Service().Search().ClearHistory(req.Context(), user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// SaveSearch stores a named search for later re-running.
func (h *SearchHandler) SaveSearch(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.SaveSearchRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	saved, err := h.db.Service().Search().
		SaveSearch(req.Context(), user.ID, body.Name, body.Query, body.Filters)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, saved)
}

// ListSavedSearches lists the requesting user's saved searches.
func (h *SearchHandler) ListSavedSearches(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	saved, err := h.db.Service().Search().ListSavedSearches(req.Context(), user.ID)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, saved)
}

// DeleteSavedSearch removes a saved search.
func (h *SearchHandler) DeleteSavedSearch(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Search().DeleteSavedSearch(req.Context(), id, user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}
