package handlers

import (
	"context"
	"net/http"

	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MoocService is the interface that wraps methods for Mooc business logic.
type MoocService interface {
	// Method CreateMooc creates a mooc together with its inline decks and cards in one transaction.
	//
	// "request.OwnerID" must be set by the caller from the authenticated user.
	// Referenced class and decks must exist, otherwise an error wrapping models.ErrNotFound is returned.
	// Malformed input returns an error wrapping models.ErrValidation.
	CreateMooc(ctx context.Context, request *models.CreateMoocRequest) (*models.MoocResponse, error)
	// Method GetAllMoocs retrieves all moocs, optionally only those of the class "classID".
	GetAllMoocs(ctx context.Context, classID *int) ([]models.Mooc, error)
	// Method GetMoocByID retrieves a mooc with its decks and enrollments.
	//
	// If the mooc does not exist, an error wrapping models.ErrNotFound is returned.
	GetMoocByID(ctx context.Context, id int) (*models.Mooc, error)
	// Method UpdateMooc applies a partial update.
	//
	// Switching a mooc to public publishes every linked deck and emits a MoocPublished event.
	// Only the owner may update, otherwise an error wrapping models.ErrPermissionDenied is returned.
	UpdateMooc(ctx context.Context, id, requesterID int, request *models.UpdateMoocRequest) (*models.Mooc, error)
	// Method DeleteMooc deletes a mooc with its decks and cards and returns the deleted mooc.
	//
	// Only the owner may delete, otherwise an error wrapping models.ErrPermissionDenied is returned.
	DeleteMooc(ctx context.Context, id, requesterID int) (*models.Mooc, error)
}

// MoocHandler handles HTTP requests for moocs
type MoocHandler struct {
	BaseHandler
	service MoocService
}

// NewMoocHandler creates a new mooc handler
func NewMoocHandler(svc MoocService, logger *zap.Logger) *MoocHandler {
	return &MoocHandler{
		service:     svc,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all mooc handler routes.
// Reads are public, writes require authentication.
func (h *MoocHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/v1/moocs", h.GetAll)
	r.Get("/api/v1/moocs/{id}", h.GetByID)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/v1/moocs", h.Create)
		r.Patch("/api/v1/moocs/{id}", h.Update)
		r.Delete("/api/v1/moocs/{id}", h.Delete)
	})
}

// Create handles POST /api/v1/moocs
// @Summary Create a mooc
// @Description Create a mooc with inline decks and cards. The authenticated user becomes the owner.
// @Tags moocs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateMoocRequest true "Mooc"
// @Success 201 {object} models.MoocResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs [post]
func (h *MoocHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var request models.CreateMoocRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}
	request.OwnerID = userID

	response, err := h.service.CreateMooc(r.Context(), &request)
	if err != nil {
		h.handleServiceError(w, err, "create mooc")
		return
	}

	h.respondJSON(w, http.StatusCreated, response)
}

// GetAll handles GET /api/v1/moocs
// @Summary List moocs
// @Tags moocs
// @Produce json
// @Param classId query int false "Only moocs of this class"
// @Success 200 {array} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs [get]
func (h *MoocHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var classID *int
	if r.URL.Query().Get("classId") != "" {
		id, err := queryInt(r, "classId", 0)
		if err != nil || id <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid classId parameter")
			return
		}
		classID = &id
	}

	moocs, err := h.service.GetAllMoocs(r.Context(), classID)
	if err != nil {
		h.handleServiceError(w, err, "get moocs")
		return
	}

	h.respondJSON(w, http.StatusOK, moocs)
}

// GetByID handles GET /api/v1/moocs/{id}
// @Summary Get mooc by ID
// @Tags moocs
// @Produce json
// @Param id path int true "Mooc ID"
// @Success 200 {object} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id} [get]
func (h *MoocHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	mooc, err := h.service.GetMoocByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get mooc")
		return
	}

	h.respondJSON(w, http.StatusOK, mooc)
}

// Update handles PATCH /api/v1/moocs/{id}
// @Summary Update a mooc
// @Description Partially update a mooc. Only the owner may update. A decks list replaces all deck links. Setting publicStatus to 2 publishes every deck.
// @Tags moocs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Param request body models.UpdateMoocRequest true "Changes"
// @Success 200 {object} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id} [patch]
func (h *MoocHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.UpdateMoocRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	mooc, err := h.service.UpdateMooc(r.Context(), id, userID, &request)
	if err != nil {
		h.handleServiceError(w, err, "update mooc")
		return
	}

	h.respondJSON(w, http.StatusOK, mooc)
}

// Delete handles DELETE /api/v1/moocs/{id}
// @Summary Delete a mooc
// @Description Delete a mooc with its decks and cards. Only the owner may delete.
// @Tags moocs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Success 200 {object} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id} [delete]
func (h *MoocHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	mooc, err := h.service.DeleteMooc(r.Context(), id, userID)
	if err != nil {
		h.handleServiceError(w, err, "delete mooc")
		return
	}

	h.respondJSON(w, http.StatusOK, mooc)
}
