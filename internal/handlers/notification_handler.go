package handlers

import (
	"context"
	"net/http"

	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationService is the interface that wraps the notification feed.
type NotificationService interface {
	// Method List returns a page of the user's notifications, newest first.
	//
	// "page" starts at 1 and "count" must be between 1 and 100, otherwise models.ErrValidation is returned.
	List(ctx context.Context, userID, page, count int) ([]models.Notification, error)
	// Method MarkRead marks a notification of the user as read.
	MarkRead(ctx context.Context, id, userID int) error
}

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	BaseHandler
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(svc NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service:     svc,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all notification handler routes
func (h *NotificationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/v1/notifications", h.List)
		r.Post("/api/v1/notifications/{id}/read", h.MarkRead)
	})
}

// List handles GET /api/v1/notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Items per page, default: 20"
// @Success 200 {array} models.Notification
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	count, err := queryInt(r, "count", 20)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid count parameter")
		return
	}

	notifications, err := h.service.List(r.Context(), userID, page, count)
	if err != nil {
		h.handleServiceError(w, err, "get notifications")
		return
	}

	h.respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/v1/notifications/{id}/read
// @Summary Mark a notification as read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		h.handleServiceError(w, err, "mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
