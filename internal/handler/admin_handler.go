package handler

import (
	"encoding/json"
	"net/http"

	"souq-kart/internal/model"
	"souq-kart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminOrderHandler handles admin order management HTTP requests.
type AdminOrderHandler struct {
	service service.OrderStatusService
	logger  zerolog.Logger
}

// NewAdminOrderHandler creates a new admin order handler.
func NewAdminOrderHandler(service service.OrderStatusService, logger zerolog.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin-order").Logger(),
	}
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status requests.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch && r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/admin/orders/{id}/status
	const prefix = "/api/admin/orders/"
	const suffix = "/status"
	path := r.URL.Path
	if len(path) <= len(prefix)+len(suffix) || path[len(path)-len(suffix):] != suffix {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(path[len(prefix) : len(path)-len(suffix)])
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), orderID, &req); err != nil {
		if domainErr := asDomainError(err); domainErr != nil {
			writeJSON(w, domainStatus(domainErr.Code), model.StatusUpdateResponse{
				Error:  domainErr.Key,
				Params: domainErr.Params,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to update order status", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusUpdateResponse{Success: true})
}
