package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"PGCheckout/internal/cashfree"
	"PGCheckout/internal/identifier"
	"PGCheckout/internal/models"
	"PGCheckout/internal/payments"
	"PGCheckout/internal/validate"
)

// Currency is fixed; the provider account and the client form both assume it.
const Currency = "INR"

var ErrMissingOrderID = errors.New("missing order id")

// Gateway is the slice of the provider client the services need. Tests
// substitute a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, req cashfree.CreateOrderRequest) (*cashfree.OrderPayload, error)
	FetchPayments(ctx context.Context, orderID string) ([]models.PaymentAttempt, error)
}

// AuditStore persists order records and webhook receipts. A nil store
// disables the audit trail; nothing user-facing depends on it.
type AuditStore interface {
	InsertOrder(ctx context.Context, rec *models.OrderRecord) error
	InsertWebhookReceipt(ctx context.Context, rec *models.WebhookReceipt) error
}

type OrderService struct {
	Gateway   Gateway
	Audit     AuditStore
	ClientURL string
	TTL       time.Duration
	Note      string
	Logger    *zap.Logger
}

// CreateOrder validates the request, builds the provider order and calls
// the provider exactly once. Identifiers are generated fresh per call, so
// the operation is deliberately not idempotent: callers wanting dedupe
// must do it before calling.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest) (*cashfree.OrderPayload, error) {
	validated, err := validate.OrderRequest(req)
	if err != nil {
		return nil, err
	}

	customerID := validated.CustomerID
	if customerID == "" {
		customerID = identifier.NewCustomerID()
	}
	orderID := identifier.NewOrderID()
	amount := validate.Amount(validated.OrderAmount.String())
	now := time.Now().UTC()
	expiry := now.Add(s.TTL)

	cfReq := cashfree.CreateOrderRequest{
		OrderID:       orderID,
		OrderAmount:   amount,
		OrderCurrency: Currency,
		CustomerDetails: models.CustomerDetails{
			CustomerID:    customerID,
			CustomerName:  validated.CustomerName,
			CustomerEmail: validated.CustomerEmail,
			CustomerPhone: validated.CustomerPhone,
		},
		OrderMeta: cashfree.OrderMeta{
			// {order_id} is substituted by the provider, not by us.
			ReturnURL: s.ClientURL + "/payment-status?order_id={order_id}",
		},
		OrderExpiryTime: expiry.Format(time.RFC3339),
		OrderNote:       s.Note,
	}

	payload, err := s.Gateway.CreateOrder(ctx, cfReq)
	if err != nil {
		return nil, err
	}

	if s.Audit != nil {
		rec := &models.OrderRecord{
			OrderID:       orderID,
			CustomerID:    customerID,
			CustomerName:  validated.CustomerName,
			CustomerEmail: validated.CustomerEmail,
			CustomerPhone: validated.CustomerPhone,
			OrderAmount:   amount,
			Currency:      Currency,
			ExpiresAt:     expiry,
			Outcome:       models.OutcomeCreated,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		// Best effort: the provider order already exists and the
		// client must get its session regardless of audit state.
		if err := s.Audit.InsertOrder(ctx, rec); err != nil {
			s.log().Warn("audit insert failed", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	return payload, nil
}

// OrderStatus fetches the live attempt list from the provider and reduces
// it to one status. Provider failures, including unknown orders, surface
// unchanged; they are never collapsed into a Failure status.
func (s *OrderService) OrderStatus(ctx context.Context, orderID string) (models.AggregatedStatus, []models.PaymentAttempt, error) {
	if orderID == "" {
		return "", nil, ErrMissingOrderID
	}
	attempts, err := s.Gateway.FetchPayments(ctx, orderID)
	if err != nil {
		return "", nil, err
	}
	return payments.Aggregate(attempts), attempts, nil
}

// RecordWebhook stores one provider notification as an audit receipt.
// Receipts never drive status; the payments-fetch API stays the source of
// truth because notifications arrive unverified.
func (s *OrderService) RecordWebhook(ctx context.Context, orderID, orderStatus, paymentStatus string) {
	s.log().Info("webhook received",
		zap.String("order_id", orderID),
		zap.String("order_status", orderStatus),
		zap.String("payment_status", paymentStatus),
	)
	if s.Audit == nil {
		return
	}
	rec := &models.WebhookReceipt{
		EventID:       uuid.NewString(),
		OrderID:       orderID,
		OrderStatus:   orderStatus,
		PaymentStatus: paymentStatus,
		ReceivedAt:    time.Now().UTC(),
	}
	if err := s.Audit.InsertWebhookReceipt(ctx, rec); err != nil {
		s.log().Warn("webhook receipt insert failed", zap.String("order_id", orderID), zap.Error(err))
	}
}

func (s *OrderService) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
