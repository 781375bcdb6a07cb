// Package reconciler periodically resolves audit-trail order records
// against the provider. The live status endpoint is untouched by it; the
// sweep exists so created orders eventually carry a terminal outcome even
// when the customer never returns to the status page.
package reconciler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"PGCheckout/internal/metrics"
	"PGCheckout/internal/models"
	"PGCheckout/internal/payments"
)

type Store interface {
	ListUnresolvedOrders(ctx context.Context) ([]*models.OrderRecord, error)
	ResolveOrder(ctx context.Context, orderID string, outcome models.OrderOutcome, resolvedAt time.Time) (int64, error)
}

type Gateway interface {
	FetchPayments(ctx context.Context, orderID string) ([]models.PaymentAttempt, error)
}

type Reconciler struct {
	Store    Store
	Gateway  Gateway
	Interval time.Duration
	// Grace delays a failure verdict past order expiry so attempts the
	// provider is still settling are not cut off.
	Grace  time.Duration
	Logger *zap.Logger
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		if err := r.SweepOnce(ctx); err != nil {
			r.Logger.Error("sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce lists unresolved records and settles each independently; a
// provider error on one order never stalls the rest.
func (r *Reconciler) SweepOnce(ctx context.Context) error {
	recs, err := r.Store.ListUnresolvedOrders(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	r.Logger.Info("sweep started", zap.Int("unresolved", len(recs)))

	for _, rec := range recs {
		if err := r.reconcileOrder(ctx, rec); err != nil {
			r.Logger.Warn("reconcile failed",
				zap.String("order_id", rec.OrderID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (r *Reconciler) reconcileOrder(ctx context.Context, rec *models.OrderRecord) error {
	attempts, err := r.Gateway.FetchPayments(ctx, rec.OrderID)
	if err != nil {
		return err
	}

	status := payments.Aggregate(attempts)
	now := time.Now().UTC()

	var outcome models.OrderOutcome
	switch {
	case status == models.StatusSuccess:
		outcome = models.OutcomeSuccess
	case status == models.StatusFailure && now.After(rec.ExpiresAt.Add(r.Grace)):
		// Expiry has passed with no success and nothing pending; the
		// provider will not accept further attempts on this order.
		outcome = models.OutcomeFailure
	default:
		return nil
	}

	updated, err := r.Store.ResolveOrder(ctx, rec.OrderID, outcome, now)
	if err != nil {
		return err
	}
	if updated > 0 {
		metrics.OrdersReconciled.WithLabelValues(string(outcome)).Inc()
		r.Logger.Info("order resolved",
			zap.String("order_id", rec.OrderID),
			zap.String("outcome", string(outcome)),
		)
	}
	return nil
}
