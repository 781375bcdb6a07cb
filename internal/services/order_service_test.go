package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/models"
	"PGCheckout/internal/validate"
)

type fakeGateway struct {
	createCalls   int
	lastCreateReq cashfree.CreateOrderRequest
	createPayload *cashfree.OrderPayload
	createErr     error

	fetchCalls   int
	lastOrderID  string
	fetchResult  []models.PaymentAttempt
	fetchErr     error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req cashfree.CreateOrderRequest) (*cashfree.OrderPayload, error) {
	g.createCalls++
	g.lastCreateReq = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	if g.createPayload != nil {
		return g.createPayload, nil
	}
	return &cashfree.OrderPayload{OrderID: req.OrderID, PaymentSessionID: "session_xyz"}, nil
}

func (g *fakeGateway) FetchPayments(ctx context.Context, orderID string) ([]models.PaymentAttempt, error) {
	g.fetchCalls++
	g.lastOrderID = orderID
	return g.fetchResult, g.fetchErr
}

type fakeAudit struct {
	orders   []*models.OrderRecord
	receipts []*models.WebhookReceipt
	insErr   error
}

func (a *fakeAudit) InsertOrder(ctx context.Context, rec *models.OrderRecord) error {
	if a.insErr != nil {
		return a.insErr
	}
	a.orders = append(a.orders, rec)
	return nil
}

func (a *fakeAudit) InsertWebhookReceipt(ctx context.Context, rec *models.WebhookReceipt) error {
	if a.insErr != nil {
		return a.insErr
	}
	a.receipts = append(a.receipts, rec)
	return nil
}

func validRequest() models.OrderRequest {
	return models.OrderRequest{
		OrderAmount:   models.Amount("100.00"),
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@x.com",
		CustomerPhone: "9876543210",
	}
}

func newService(gw *fakeGateway, audit AuditStore) *OrderService {
	return &OrderService{
		Gateway:   gw,
		Audit:     audit,
		ClientURL: "http://localhost:5173",
		TTL:       30 * time.Minute,
		Note:      "Payment for order",
	}
}

func TestCreateOrderBuildsProviderRequest(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw, nil)

	before := time.Now().UTC()
	payload, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, 1, gw.createCalls)
	require.NotEmpty(t, payload.PaymentSessionID)

	req := gw.lastCreateReq
	require.True(t, strings.HasPrefix(req.OrderID, "order_"))
	require.Equal(t, 100.0, req.OrderAmount)
	require.Equal(t, "INR", req.OrderCurrency)
	require.Equal(t, "Jane Doe", req.CustomerDetails.CustomerName)
	require.Equal(t, "http://localhost:5173/payment-status?order_id={order_id}", req.OrderMeta.ReturnURL)
	require.Equal(t, "Payment for order", req.OrderNote)

	// No customer_id supplied, so the fallback scheme kicks in.
	require.True(t, strings.HasPrefix(req.CustomerDetails.CustomerID, "customer_"))

	expiry, perr := time.Parse(time.RFC3339, req.OrderExpiryTime)
	require.NoError(t, perr)
	require.WithinDuration(t, before.Add(30*time.Minute), expiry, 5*time.Second)
}

func TestCreateOrderKeepsSuppliedCustomerID(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw, nil)

	req := validRequest()
	req.CustomerID = "cust-42"
	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "cust-42", gw.lastCreateReq.CustomerDetails.CustomerID)
}

func TestCreateOrderValidationShortCircuits(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw, nil)

	req := validRequest()
	req.OrderAmount = models.Amount("-5")
	_, err := svc.CreateOrder(context.Background(), req)

	_, ok := validate.AsValidation(err)
	require.True(t, ok)
	require.Zero(t, gw.createCalls, "provider must not be called on validation failure")
}

func TestCreateOrderNotIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw, nil)

	_, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	first := gw.lastCreateReq.OrderID

	_, err = svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEqual(t, first, gw.lastCreateReq.OrderID, "same input must yield a fresh order")
}

func TestCreateOrderPassesProviderErrorThrough(t *testing.T) {
	provErr := &cashfree.APIError{StatusCode: http.StatusUnauthorized, Message: "authentication failed"}
	gw := &fakeGateway{createErr: provErr}
	svc := newService(gw, nil)

	_, err := svc.CreateOrder(context.Background(), validRequest())
	var apiErr *cashfree.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCreateOrderRecordsAudit(t *testing.T) {
	gw := &fakeGateway{}
	audit := &fakeAudit{}
	svc := newService(gw, audit)

	_, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, audit.orders, 1)
	rec := audit.orders[0]
	require.Equal(t, gw.lastCreateReq.OrderID, rec.OrderID)
	require.Equal(t, models.OutcomeCreated, rec.Outcome)
	require.Equal(t, 100.0, rec.OrderAmount)
}

func TestCreateOrderAuditFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{}
	audit := &fakeAudit{insErr: errors.New("db down")}
	svc := newService(gw, audit)

	payload, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, payload.PaymentSessionID)
}

func TestOrderStatusAggregates(t *testing.T) {
	gw := &fakeGateway{fetchResult: []models.PaymentAttempt{
		{PaymentStatus: "PENDING"},
		{PaymentStatus: "FAILED"},
	}}
	svc := newService(gw, nil)

	status, attempts, err := svc.OrderStatus(context.Background(), "order_1_aa")
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, status)
	require.Len(t, attempts, 2)
	require.Equal(t, "order_1_aa", gw.lastOrderID)
}

func TestOrderStatusMissingID(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw, nil)

	_, _, err := svc.OrderStatus(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingOrderID)
	require.Zero(t, gw.fetchCalls)
}

func TestOrderStatusProviderErrorIsNotFailure(t *testing.T) {
	gw := &fakeGateway{fetchErr: &cashfree.APIError{StatusCode: http.StatusNotFound, Message: "Order reference id does not exist"}}
	svc := newService(gw, nil)

	status, _, err := svc.OrderStatus(context.Background(), "order_unknown")
	require.Error(t, err)
	require.Empty(t, status, "a provider error must not map to an aggregated status")
}

func TestRecordWebhook(t *testing.T) {
	audit := &fakeAudit{}
	svc := newService(&fakeGateway{}, audit)

	svc.RecordWebhook(context.Background(), "order_1_aa", "PAID", "SUCCESS")
	require.Len(t, audit.receipts, 1)
	rec := audit.receipts[0]
	require.NotEmpty(t, rec.EventID)
	require.Equal(t, "order_1_aa", rec.OrderID)
	require.Equal(t, "SUCCESS", rec.PaymentStatus)
}

func TestRecordWebhookWithoutAuditStore(t *testing.T) {
	svc := newService(&fakeGateway{}, nil)
	// Must not panic; receipt recording is optional.
	svc.RecordWebhook(context.Background(), "order_1_aa", "PAID", "SUCCESS")
}
