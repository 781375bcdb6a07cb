package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// AggregatedStatus is the single order-level outcome derived from the
// provider's raw payment attempts. Recomputed on every query, never stored.
type AggregatedStatus string

const (
	StatusSuccess AggregatedStatus = "Success"
	StatusPending AggregatedStatus = "Pending"
	StatusFailure AggregatedStatus = "Failure"
)

// Per-attempt payment statuses reported by the provider.
const (
	PaymentSuccess = "SUCCESS"
	PaymentPending = "PENDING"
	PaymentFailed  = "FAILED"
)

// Amount is a decimal that survives decoding whether the client sent
// `100.5` or `"100.5"`. The validator, not the decoder, decides whether
// it parses as a positive number.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(a), 64); err == nil {
		return []byte(a), nil
	}
	return json.Marshal(string(a))
}

func (a Amount) String() string { return string(a) }

// OrderRequest is the inbound create-order body.
type OrderRequest struct {
	OrderAmount   Amount `json:"order_amount"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	CustomerID    string `json:"customer_id,omitempty"`
}

type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

// PaymentAttempt is one provider-recorded try to pay against an order.
// Read-only here; the provider owns this data.
type PaymentAttempt struct {
	CFPaymentID     json.Number `json:"cf_payment_id,omitempty"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentAmount   float64     `json:"payment_amount"`
	PaymentCurrency string      `json:"payment_currency,omitempty"`
	PaymentGroup    string      `json:"payment_group,omitempty"`
	PaymentTime     string      `json:"payment_time,omitempty"`
	PaymentMessage  string      `json:"payment_message,omitempty"`
	BankReference   string      `json:"bank_reference,omitempty"`
}

type OrderOutcome string

const (
	OutcomeCreated OrderOutcome = "created"
	OutcomeSuccess OrderOutcome = "success"
	OutcomeFailure OrderOutcome = "failure"
)

// OrderRecord is the audit-trail row written when an order is created with
// the provider. It backs reconciliation only; status queries never read it.
type OrderRecord struct {
	OrderID       string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	OrderAmount   float64
	Currency      string
	ExpiresAt     time.Time
	Outcome       OrderOutcome
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WebhookReceipt records one provider notification as received. Receipts
// are audit data, never a source of truth for order status.
type WebhookReceipt struct {
	EventID       string
	OrderID       string
	OrderStatus   string
	PaymentStatus string
	ReceivedAt    time.Time
}
