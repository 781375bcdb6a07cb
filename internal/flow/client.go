package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"PGCheckout/internal/models"
)

// Client talks to the checkout backend the same way the browser pages do.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success     bool                    `json:"success"`
	Message     string                  `json:"message"`
	Error       string                  `json:"error"`
	OrderStatus models.AggregatedStatus `json:"orderStatus"`
	Payments    []models.PaymentAttempt `json:"payments"`
	Data        struct {
		OrderID          string `json:"order_id"`
		PaymentSessionID string `json:"payment_session_id"`
	} `json:"data"`
}

// CreateOrder submits the form payload and returns the provider session
// identifier the hosted checkout widget needs.
func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/create-order", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	env, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	if env.Data.PaymentSessionID == "" {
		return "", errors.New("missing payment session id in response")
	}
	return env.Data.PaymentSessionID, nil
}

// OrderStatus performs the single status fetch for an order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (models.AggregatedStatus, []models.PaymentAttempt, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/order-status/"+orderID, nil)
	if err != nil {
		return "", nil, err
	}
	env, err := c.do(httpReq)
	if err != nil {
		return "", nil, err
	}
	return env.OrderStatus, env.Payments, nil
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("backend http status %d", resp.StatusCode)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("backend http status %d", resp.StatusCode)
		}
		return nil, errors.New(msg)
	}
	return &env, nil
}
