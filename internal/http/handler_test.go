package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/models"
	"PGCheckout/internal/services"
)

type stubGateway struct {
	createCalls int
	createErr   error

	fetchErr    error
	fetchResult []models.PaymentAttempt
}

func (g *stubGateway) CreateOrder(ctx context.Context, req cashfree.CreateOrderRequest) (*cashfree.OrderPayload, error) {
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &cashfree.OrderPayload{
		OrderID:          req.OrderID,
		PaymentSessionID: "session_e2e",
		OrderStatus:      "ACTIVE",
		OrderAmount:      req.OrderAmount,
		OrderCurrency:    req.OrderCurrency,
	}, nil
}

func (g *stubGateway) FetchPayments(ctx context.Context, orderID string) ([]models.PaymentAttempt, error) {
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return g.fetchResult, nil
}

func newTestServer(gw *stubGateway) *Server {
	svc := &services.OrderService{
		Gateway:   gw,
		ClientURL: "http://localhost:5173",
		TTL:       30 * time.Minute,
		Note:      "Payment for order",
		Logger:    zap.NewNop(),
	}
	return NewServer(NewHandler(svc, zap.NewNop()))
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Router.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return rr, out
}

func TestCreateOrderEndToEnd(t *testing.T) {
	gw := &stubGateway{}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodPost, "/api/create-order",
		`{"customer_name":"Jane Doe","customer_email":"jane@x.com","customer_phone":"9876543210","order_amount":100.00}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, out["success"])
	data := out["data"].(map[string]any)
	require.NotEmpty(t, data["payment_session_id"])
	require.Equal(t, 1, gw.createCalls)
}

func TestCreateOrderValidationError(t *testing.T) {
	gw := &stubGateway{}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodPost, "/api/create-order",
		`{"customer_name":"Jane Doe","customer_email":"jane@x.com","customer_phone":"9876543210","order_amount":"-5"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, false, out["success"])
	require.Equal(t, "Validation error", out["message"])
	require.Contains(t, out["error"], "order_amount")
	require.Zero(t, gw.createCalls, "validation failure must not reach the provider")
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	srv := newTestServer(&stubGateway{})

	rr, out := doJSON(t, srv, http.MethodPost, "/api/create-order", `{`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, false, out["success"])
}

func TestCreateOrderProviderErrorPassThrough(t *testing.T) {
	gw := &stubGateway{createErr: &cashfree.APIError{StatusCode: http.StatusUnauthorized, Message: "authentication failed"}}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodPost, "/api/create-order",
		`{"customer_name":"Jane Doe","customer_email":"jane@x.com","customer_phone":"9876543210","order_amount":100}`)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, false, out["success"])
	require.Equal(t, "authentication failed", out["message"])
}

func TestOrderStatusSuccess(t *testing.T) {
	gw := &stubGateway{fetchResult: []models.PaymentAttempt{
		{PaymentStatus: "SUCCESS", PaymentAmount: 100, PaymentGroup: "upi"},
	}}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodGet, "/api/order-status/order_1_aa", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, out["success"])
	require.Equal(t, "Success", out["orderStatus"])

	payments := out["payments"].([]any)
	require.Len(t, payments, 1)
	first := payments[0].(map[string]any)
	require.Equal(t, "upi", first["payment_group"])
}

func TestOrderStatusPendingOutranksFailed(t *testing.T) {
	gw := &stubGateway{fetchResult: []models.PaymentAttempt{
		{PaymentStatus: "PENDING"},
		{PaymentStatus: "FAILED"},
	}}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodGet, "/api/order-status/order_1_aa", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Pending", out["orderStatus"])
}

func TestOrderStatusNoAttemptsIsFailure(t *testing.T) {
	gw := &stubGateway{fetchResult: nil}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodGet, "/api/order-status/order_1_aa", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Failure", out["orderStatus"])
	require.NotNil(t, out["payments"], "payments must encode as an empty array, not null")
}

func TestOrderStatusUnknownOrderIsErrorNotFailure(t *testing.T) {
	gw := &stubGateway{fetchErr: &cashfree.APIError{StatusCode: http.StatusNotFound, Message: "Order reference id does not exist"}}
	srv := newTestServer(gw)

	rr, out := doJSON(t, srv, http.MethodGet, "/api/order-status/order_unknown", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, false, out["success"])
	_, hasStatus := out["orderStatus"]
	require.False(t, hasStatus, "an error response must never carry an aggregated status")
}

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	srv := newTestServer(&stubGateway{})

	rr, out := doJSON(t, srv, http.MethodPost, "/api/webhook",
		`{"order_id":"order_1_aa","order_status":"PAID","payment_status":"SUCCESS"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, out["success"])

	// Malformed bodies are acknowledged too; receipt is best effort.
	rr, out = doJSON(t, srv, http.MethodPost, "/api/webhook", `not json`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, out["success"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubGateway{})

	rr, out := doJSON(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "OK", out["status"])
}
