package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Create-order requests by result.",
	}, []string{"result"})

	StatusQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_status_queries_total",
		Help: "Order-status queries by aggregated outcome.",
	}, []string{"outcome"})

	WebhooksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_webhooks_received_total",
		Help: "Provider webhook notifications received.",
	})

	OrdersReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_reconciled_total",
		Help: "Audit records resolved by the reconciler, by outcome.",
	}, []string{"outcome"})
)
