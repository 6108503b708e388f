package handlers

import (
	"context"
	"net/http"

	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EnrollmentService is the interface that wraps enrollment and progress tracking.
type EnrollmentService interface {
	// Method EnrollUser enrolls a user in a mooc. Enrolling twice is a no-op.
	//
	// When the mooc belongs to a class the user must be a member (models.ErrNotAMember).
	EnrollUser(ctx context.Context, moocID, userID int) (*models.Mooc, error)
	// Method UpdateProgress records the completion flag of one deck and recomputes the enrollment state.
	//
	// A user without an enrollment gets an error wrapping models.ErrNotEnrolled.
	UpdateProgress(ctx context.Context, moocID, userID, deckID int, completed bool) (*models.Mooc, error)
}

// UnlockService is the interface that wraps the deck unlock policy.
type UnlockService interface {
	// Method GetDeckAvailability evaluates every deck of the mooc for a learner holding "points".
	GetDeckAvailability(ctx context.Context, moocID, userID, points int) ([]models.DeckAvailability, error)
	// Method UnlockDeck lets the mooc owner open a deck for a learner regardless of points.
	UnlockDeck(ctx context.Context, moocID, requesterID, userID, deckID int) error
}

// EnrollmentHandler handles HTTP requests for enrollments, progress and deck availability
type EnrollmentHandler struct {
	BaseHandler
	enrollments EnrollmentService
	unlocks     UnlockService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollments EnrollmentService, unlocks UnlockService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		unlocks:     unlocks,
		BaseHandler: newBaseHandler(logger),
	}
}

// RegisterRoutes registers all enrollment handler routes
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/v1/moocs/{id}/enroll", h.Enroll)
		r.Put("/api/v1/moocs/{id}/progress", h.UpdateProgress)
		r.Get("/api/v1/moocs/{id}/availability", h.GetAvailability)
		r.Post("/api/v1/moocs/{id}/decks/{deckId}/unlock", h.UnlockDeck)
	})
}

// Enroll handles POST /api/v1/moocs/{id}/enroll
// @Summary Enroll in a mooc
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Success 200 {object} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	moocID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	mooc, err := h.enrollments.EnrollUser(r.Context(), moocID, userID)
	if err != nil {
		h.handleServiceError(w, err, "enroll user")
		return
	}

	h.respondJSON(w, http.StatusOK, mooc)
}

// UpdateProgress handles PUT /api/v1/moocs/{id}/progress
// @Summary Report deck progress
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Param request body models.UpdateProgressRequest true "Deck completion"
// @Success 200 {object} models.Mooc
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id}/progress [put]
func (h *EnrollmentHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	moocID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var request models.UpdateProgressRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	mooc, err := h.enrollments.UpdateProgress(r.Context(), moocID, userID, request.DeckID, *request.Completed)
	if err != nil {
		h.handleServiceError(w, err, "update progress")
		return
	}

	h.respondJSON(w, http.StatusOK, mooc)
}

// GetAvailability handles GET /api/v1/moocs/{id}/availability
// @Summary Deck availability for the current user
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Param points query int false "Points held by the learner, default: 0"
// @Success 200 {array} models.DeckAvailability
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id}/availability [get]
func (h *EnrollmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	moocID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	points, err := queryInt(r, "points", 0)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid points parameter")
		return
	}

	availability, err := h.unlocks.GetDeckAvailability(r.Context(), moocID, userID, points)
	if err != nil {
		h.handleServiceError(w, err, "get deck availability")
		return
	}

	h.respondJSON(w, http.StatusOK, availability)
}

// UnlockDeck handles POST /api/v1/moocs/{id}/decks/{deckId}/unlock
// @Summary Unlock a deck for a learner
// @Description The mooc owner opens a deck for a learner regardless of points.
// @Tags enrollments
// @Accept json
// @Security BearerAuth
// @Param id path int true "Mooc ID"
// @Param deckId path int true "Deck ID"
// @Param request body models.UnlockDeckRequest true "Learner"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/moocs/{id}/decks/{deckId}/unlock [post]
func (h *EnrollmentHandler) UnlockDeck(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	moocID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	deckID, ok := h.pathID(w, r, "deckId")
	if !ok {
		return
	}

	var request models.UnlockDeckRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	if err := h.unlocks.UnlockDeck(r.Context(), moocID, requesterID, request.UserID, deckID); err != nil {
		h.handleServiceError(w, err, "unlock deck")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
