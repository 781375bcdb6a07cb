package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/metrics"
	"PGCheckout/internal/models"
	"PGCheckout/internal/services"
	"PGCheckout/internal/validate"
)

type Handler struct {
	Orders *services.OrderService
	Logger *zap.Logger
}

func NewHandler(orders *services.OrderService, logger *zap.Logger) *Handler {
	return &Handler{Orders: orders, Logger: logger}
}

type webhookRequest struct {
	OrderID       string `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.OrdersCreated.WithLabelValues("bad_request").Inc()
		writeFail(w, http.StatusBadRequest, "Validation error", "invalid json body")
		return
	}

	payload, err := h.Orders.CreateOrder(r.Context(), req)
	if err != nil {
		if ve, ok := validate.AsValidation(err); ok {
			// No provider call was made; the first failing field wins.
			metrics.OrdersCreated.WithLabelValues("validation_error").Inc()
			writeFail(w, http.StatusBadRequest, "Validation error", ve.Message)
			return
		}
		h.Logger.Error("create order failed", zap.Error(err))
		metrics.OrdersCreated.WithLabelValues("provider_error").Inc()
		status, message := providerError(err, "Failed to create order")
		writeFail(w, status, message, err.Error())
		return
	}

	metrics.OrdersCreated.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order created successfully",
		"data":    payload,
	})
}

func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	status, attempts, err := h.Orders.OrderStatus(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrMissingOrderID) {
			metrics.StatusQueries.WithLabelValues("error").Inc()
			writeFail(w, http.StatusBadRequest, "Failed to fetch order status", "missing order id")
			return
		}
		h.Logger.Error("order status fetch failed", zap.String("order_id", orderID), zap.Error(err))
		metrics.StatusQueries.WithLabelValues("error").Inc()
		code, message := providerError(err, "Failed to fetch order status")
		writeFail(w, code, message, err.Error())
		return
	}

	metrics.StatusQueries.WithLabelValues(strings.ToLower(string(status))).Inc()
	if attempts == nil {
		attempts = []models.PaymentAttempt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"orderStatus": status,
		"payments":    attempts,
	})
}

// Webhook acknowledges every well-formed notification. The body is recorded
// for audit but never treated as the source of truth for order status.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	metrics.WebhooksReceived.Inc()
	h.Orders.RecordWebhook(r.Context(), req.OrderID, req.OrderStatus, req.PaymentStatus)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// providerError maps a provider failure to the status code the provider
// reported, defaulting to 500 for transport-level errors.
func providerError(err error, fallback string) (int, string) {
	var apiErr *cashfree.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		return apiErr.StatusCode, message
	}
	return http.StatusInternalServerError, fallback
}
