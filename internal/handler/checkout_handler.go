package handler

import (
	"encoding/json"
	"net/http"

	"souq-kart/internal/model"
	"souq-kart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userIDHeader carries the authenticated user's identity, set by the
// auth layer upstream of this service.
const userIDHeader = "X-User-ID"

// CheckoutHandler handles checkout and coupon HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if header := r.Header.Get(userIDHeader); header != "" {
		userID, err := uuid.Parse(header)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid user ID", h.logger)
			return
		}
		req.UserID = &userID
	}

	order, err := h.service.Checkout(r.Context(), &req)
	if err != nil {
		if domainErr := asDomainError(err); domainErr != nil {
			writeJSON(w, domainStatus(domainErr.Code), model.CheckoutResponse{
				Error:  domainErr.Key,
				Params: domainErr.Params,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.CheckoutResponse{
		Success:     true,
		OrderID:     &order.ID,
		OrderNumber: order.OrderNumber,
	})
}

// ApplyCoupon handles POST /api/coupons/apply requests.
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req model.CouponApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	discount, err := h.service.ApplyCoupon(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		if domainErr := asDomainError(err); domainErr != nil {
			writeJSON(w, domainStatus(domainErr.Code), model.CouponApplyResponse{
				Error:  domainErr.Key,
				Params: domainErr.Params,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to apply coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.CouponApplyResponse{
		Success:  true,
		Discount: discount,
	})
}
