package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/flashlearn/mooc-service/internal/middleware"
	"github.com/flashlearn/mooc-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BaseHandler carries the helpers shared by every handler
type BaseHandler struct {
	logger   *zap.Logger
	validate *validator.Validate
}

func newBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger, validate: validator.New()}
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleServiceError maps a service error to its HTTP status.
// Unexpected errors are logged and hidden behind a generic message.
func (h *BaseHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrPermissionDenied),
		errors.Is(err, models.ErrNotAMember),
		errors.Is(err, models.ErrNotEnrolled):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("failed to "+operation, zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to "+operation)
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct validation tags
func (h *BaseHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter
func (h *BaseHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user id or responds 401
func (h *BaseHandler) currentUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// queryInt reads an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
