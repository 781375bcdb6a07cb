// Package cashfree is a minimal client for the Cashfree PG REST API,
// covering order creation and per-order payment listing.
package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PGCheckout/internal/models"
)

const (
	// SandboxBaseURL is the default environment for the hosted checkout.
	SandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	ProductionBaseURL = "https://api.cashfree.com/pg"

	DefaultAPIVersion = "2023-08-01"
)

type Client struct {
	baseURL    string
	appID      string
	secretKey  string
	apiVersion string
	client     *http.Client
}

func NewClient(baseURL, appID, secretKey, apiVersion string) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		secretKey:  secretKey,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError is a non-2xx answer from the provider. The status code is kept
// so callers can pass it through unchanged.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("cashfree: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("cashfree: %s (http %d)", e.Message, e.StatusCode)
}

// CreateOrderRequest is the provider-bound order creation body.
type CreateOrderRequest struct {
	OrderID         string                 `json:"order_id"`
	OrderAmount     float64                `json:"order_amount"`
	OrderCurrency   string                 `json:"order_currency"`
	CustomerDetails models.CustomerDetails `json:"customer_details"`
	OrderMeta       OrderMeta              `json:"order_meta"`
	OrderExpiryTime string                 `json:"order_expiry_time"`
	OrderNote       string                 `json:"order_note,omitempty"`
}

type OrderMeta struct {
	// ReturnURL carries a literal {order_id} token the provider
	// substitutes when redirecting back from hosted checkout.
	ReturnURL string `json:"return_url"`
}

// OrderPayload is the provider's order representation. payment_session_id
// is what the browser hands to the hosted checkout widget.
type OrderPayload struct {
	CFOrderID        json.Number `json:"cf_order_id,omitempty"`
	OrderID          string      `json:"order_id"`
	PaymentSessionID string      `json:"payment_session_id"`
	OrderStatus      string      `json:"order_status,omitempty"`
	OrderAmount      float64     `json:"order_amount,omitempty"`
	OrderCurrency    string      `json:"order_currency,omitempty"`
	OrderExpiryTime  string      `json:"order_expiry_time,omitempty"`
	OrderNote        string      `json:"order_note,omitempty"`
	CreatedAt        string      `json:"created_at,omitempty"`
}

// CreateOrder issues exactly one POST /orders call. No retries: transport
// and provider failures surface to the caller as-is.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderPayload, error) {
	var payload OrderPayload
	if err := c.doJSON(ctx, http.MethodPost, "/orders", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchPayments lists every payment attempt recorded against an order.
// An unknown order comes back as an *APIError with the provider's 404.
func (c *Client) FetchPayments(ctx context.Context, orderID string) ([]models.PaymentAttempt, error) {
	var attempts []models.PaymentAttempt
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+orderID+"/payments", nil, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-version", c.apiVersion)
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(resp.Body)

	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		return apiErr
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	apiErr.Message = msg
	return apiErr
}
