// Package flow models the two browser-side journeys as explicit state
// machines: filling the payment form and handing off to hosted checkout,
// and reading back the aggregated status after the provider's redirect.
package flow

import (
	"context"
	"errors"

	"PGCheckout/internal/models"
	"PGCheckout/internal/validate"
)

type PaymentState string

const (
	PaymentIdle        PaymentState = "idle"
	PaymentValidating  PaymentState = "validating"
	PaymentSubmitting  PaymentState = "submitting"
	PaymentRedirecting PaymentState = "redirecting"
)

type StatusState string

const (
	StatusLoading StatusState = "loading"
	StatusSuccess StatusState = "success"
	StatusPending StatusState = "pending"
	StatusFailure StatusState = "failure"
	StatusError   StatusState = "error"
)

// ErrNotReady rejects a submission before the checkout SDK has finished
// initializing. No backend call is made in that case.
var ErrNotReady = errors.New("payment system not initialized, please refresh the page")

// ErrRedirected rejects a re-submission after the one-way hand-off to
// hosted checkout.
var ErrRedirected = errors.New("checkout already in progress")

// PaymentFlow drives Idle -> Validating -> Submitting -> Redirecting, with
// both failure edges returning to Idle so the form stays re-submittable.
type PaymentFlow struct {
	client    *Client
	sdkReady  bool
	state     PaymentState
	sessionID string
}

func NewPaymentFlow(client *Client) *PaymentFlow {
	return &PaymentFlow{client: client, state: PaymentIdle}
}

// SDKReady marks the hosted-checkout SDK as initialized.
func (f *PaymentFlow) SDKReady() { f.sdkReady = true }

func (f *PaymentFlow) State() PaymentState { return f.state }

// SessionID is the provider checkout session captured by a successful
// submission; empty until the flow reaches Redirecting.
func (f *PaymentFlow) SessionID() string { return f.sessionID }

// Submit runs the advisory local validation, then creates the order and
// captures the checkout session. The local check mirrors the server's
// validator for responsiveness only; the server re-validates regardless.
func (f *PaymentFlow) Submit(ctx context.Context, req models.OrderRequest) error {
	if f.state == PaymentRedirecting {
		return ErrRedirected
	}

	f.state = PaymentValidating
	if _, err := validate.OrderRequest(req); err != nil {
		f.state = PaymentIdle
		return err
	}
	if !f.sdkReady {
		f.state = PaymentIdle
		return ErrNotReady
	}

	f.state = PaymentSubmitting
	sessionID, err := f.client.CreateOrder(ctx, req)
	if err != nil {
		f.state = PaymentIdle
		return err
	}

	f.sessionID = sessionID
	f.state = PaymentRedirecting
	return nil
}

// StatusFlow performs exactly one status fetch and lands in a terminal
// state. A backend or transport error is Error, never Failure: an
// unanswerable question is not a failed payment.
type StatusFlow struct {
	client   *Client
	state    StatusState
	attempts []models.PaymentAttempt
}

func NewStatusFlow(client *Client) *StatusFlow {
	return &StatusFlow{client: client, state: StatusLoading}
}

func (f *StatusFlow) State() StatusState { return f.state }

// Attempts returns the raw payment list from the fetch; the first entry is
// the one shown in the detail panel.
func (f *StatusFlow) Attempts() []models.PaymentAttempt { return f.attempts }

// Load resolves the flow for the order carried in the return-URL query.
// Called with an empty identifier it transitions straight to Error without
// touching the network. Subsequent calls return the settled state.
func (f *StatusFlow) Load(ctx context.Context, orderID string) StatusState {
	if f.state != StatusLoading {
		return f.state
	}
	if orderID == "" {
		f.state = StatusError
		return f.state
	}

	status, attempts, err := f.client.OrderStatus(ctx, orderID)
	if err != nil {
		f.state = StatusError
		return f.state
	}

	f.attempts = attempts
	switch status {
	case models.StatusSuccess:
		f.state = StatusSuccess
	case models.StatusPending:
		f.state = StatusPending
	case models.StatusFailure:
		f.state = StatusFailure
	default:
		f.state = StatusError
	}
	return f.state
}
