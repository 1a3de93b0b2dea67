package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) ApplyCoupon(ctx context.Context, code string, subtotal int64) (int64, error) {
	args := m.Called(ctx, code, subtotal)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckoutService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func checkoutBody() *model.CheckoutRequest {
	email := "guest@example.com"
	return &model.CheckoutRequest{
		GuestEmail: &email,
		GuestItems: []model.GuestItem{{ProductID: "P001", Quantity: 1}},
		ShippingAddress: model.ShippingAddress{
			Recipient:   "Ali Hassan",
			Phone:       "07901234567",
			Line1:       "Al-Mansour, Street 14",
			City:        "Baghdad",
			Governorate: "Baghdad",
		},
		PaymentMethod: model.PaymentMethodCOD,
	}
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	logger := zerolog.Nop()

	order := &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260301-A1B2",
		Status:      model.OrderStatusPending,
		Total:       93_000,
	}

	tests := []struct {
		name           string
		method         string
		requestBody    interface{}
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectedError  string
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			requestBody:    checkoutBody(),
			mockReturn:     order,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Empty cart",
			method:         http.MethodPost,
			requestBody:    checkoutBody(),
			mockError:      model.ErrEmptyCart,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "checkout.empty_cart",
			expectService:  true,
		},
		{
			name:           "Expired coupon",
			method:         http.MethodPost,
			requestBody:    checkoutBody(),
			mockError:      model.ErrCouponExpired,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "coupon.expired",
			expectService:  true,
		},
		{
			name:           "Order number collisions exhausted",
			method:         http.MethodPost,
			requestBody:    checkoutBody(),
			mockError:      model.ErrOrderCreateFailed,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "order.create_failed",
			expectService:  true,
		},
		{
			name:           "Unexpected service error",
			method:         http.MethodPost,
			requestBody:    checkoutBody(),
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Wrong method",
			method:         http.MethodGet,
			requestBody:    checkoutBody(),
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			h := NewCheckoutHandler(mockService, logger)

			if tt.expectService {
				mockService.On("Checkout", mock.Anything, mock.AnythingOfType("*model.CheckoutRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(tt.method, "/api/checkout", &body)
			rec := httptest.NewRecorder()

			h.Checkout(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp model.CheckoutResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.True(t, resp.Success)
				assert.Equal(t, order.OrderNumber, resp.OrderNumber)
				require.NotNil(t, resp.OrderID)
				assert.Equal(t, order.ID, *resp.OrderID)
			}

			if tt.expectedError != "" {
				var resp model.CheckoutResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedError, resp.Error)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Checkout")
			}
		})
	}
}

func TestCheckoutHandler_UserIDHeader(t *testing.T) {
	mockService := new(MockCheckoutService)
	h := NewCheckoutHandler(mockService, zerolog.Nop())

	userID := uuid.New()
	order := &model.Order{ID: uuid.New(), OrderNumber: "ORD-20260301-A1B2"}

	mockService.On("Checkout", mock.Anything, mock.MatchedBy(func(req *model.CheckoutRequest) bool {
		return req.UserID != nil && *req.UserID == userID
	})).Return(order, nil)

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(checkoutBody()))

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", &body)
	req.Header.Set("X-User-ID", userID.String())
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertExpectations(t)
}

func TestCheckoutHandler_InvalidUserIDHeader(t *testing.T) {
	mockService := new(MockCheckoutService)
	h := NewCheckoutHandler(mockService, zerolog.Nop())

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(checkoutBody()))

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", &body)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Checkout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "Checkout")
}

func TestCheckoutHandler_ApplyCoupon(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		mockDiscount   int64
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			mockDiscount:   5_000,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid coupon",
			mockError:      model.ErrCouponInvalid,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "coupon.invalid",
		},
		{
			name:           "Minimum not met with params",
			mockError:      model.CouponMinOrderNotMet(50_000),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "coupon.min_order_not_met",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			h := NewCheckoutHandler(mockService, logger)

			mockService.On("ApplyCoupon", mock.Anything, "SAVE10", int64(100_000)).
				Return(tt.mockDiscount, tt.mockError)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(model.CouponApplyRequest{
				Code:     "SAVE10",
				Subtotal: 100_000,
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/coupons/apply", &body)
			rec := httptest.NewRecorder()

			h.ApplyCoupon(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp model.CouponApplyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tt.expectedError == "" {
				assert.True(t, resp.Success)
				assert.Equal(t, tt.mockDiscount, resp.Discount)
			} else {
				assert.False(t, resp.Success)
				assert.Equal(t, tt.expectedError, resp.Error)
				if tt.name == "Minimum not met with params" {
					assert.EqualValues(t, 50_000, resp.Params["amount"])
				}
			}
		})
	}
}
