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

// CategoryHandler handles category-related REST endpoints.
type CategoryHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(db database.Client, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		db:     db,
		logger: logger,
	}
}

// Tree returns the category hierarchy. Admins may request inactive
// categories with includeInactive=true.
func (h *CategoryHandler) Tree(w http.ResponseWriter, req bunrouter.Request) error {
	includeInactive := req.URL.Query().Get("includeInactive") == "true"
	if user := auth.FromContext(req.Context()); user == nil || !user.Role.AtLeast(enum.UserRoleAdmin) {
		includeInactive = false
	}

	tree, err := h.db.Service().Category().Tree(req.Context(), includeInactive)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, tree)
}

// GetBySlug retrieves a single category by slug.
func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, req bunrouter.Request) error {
	category, err := h.db.Service().Category().GetBySlug(req.Context(), req.Param("slug"))
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, category)
}

// Create creates a new category. Admin only.
func (h *CategoryHandler) Create(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	var body restTypes.CreateCategoryRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	category, err := h.db.Service().Category().Create(req.Context(), user.Role, service.CreateCategoryParams{
		Name:         body.Name,
		Description:  body.Description,
		ParentID:     body.ParentID,
		DisplayOrder: body.DisplayOrder,
	})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, category)
}

// Update edits a category. Admin only.
func (h *CategoryHandler) Update(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.UpdateCategoryRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	category, err := h.db.Service().Category().
		Update(req.Context(), user.Role, id, service.UpdateCategoryParams{
			Name:         body.Name,
			Description:  body.Description,
			DisplayOrder: body.DisplayOrder,
			ParentID:     body.ParentID,
		})
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, category)
}

// SetActive toggles a category's visibility. Admin only.
func (h *CategoryHandler) SetActive(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.SetActiveRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Category().SetActive(req.Context(), user.Role, id, body.IsActive); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// AssignModerator grants a user moderation rights over a category.
func (h *CategoryHandler) AssignModerator(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	var body restTypes.ModeratorRequest
	if err := decodeBody(req, &body); err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Category().
		AssignModerator(req.Context(), user.Role, id, body.UserID, user.ID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// RemoveModerator revokes a user's moderation rights over a category.
func (h *CategoryHandler) RemoveModerator(w http.ResponseWriter, req bunrouter.Request) error {
	user := auth.FromContext(req.Context())

	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	userID, err := paramID(req, "userId")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	if err := h.db.Service().Category().RemoveModerator(req.Context(), user.Role, id, userID); err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, nil)
}

// ListModerators lists the moderators assigned to a category.
func (h *CategoryHandler) ListModerators(w http.ResponseWriter, req bunrouter.Request) error {
	id, err := paramID(req, "id")
	if err != nil {
		return writeFail(w, http.StatusBadRequest, err.Error())
	}

	moderators, err := h.db.Service().Category().ListModerators(req.Context(), id)
	if err != nil {
		return writeError(w, h.logger, err)
	}

	return writeOK(w, moderators)
}
