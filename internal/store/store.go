package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"PGCheckout/internal/models"
)

// Store is the audit-trail persistence layer. It records orders created
// with the provider and webhook notifications as received; the live status
// path never reads from it.
type Store struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) InsertOrder(ctx context.Context, rec *models.OrderRecord) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO orders (
			order_id, customer_id, customer_name, customer_email,
			customer_phone, order_amount, currency, expires_at,
			outcome, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (order_id) DO NOTHING
	`,
		rec.OrderID,
		rec.CustomerID,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.CustomerPhone,
		rec.OrderAmount,
		rec.Currency,
		rec.ExpiresAt,
		rec.Outcome,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (s *Store) InsertWebhookReceipt(ctx context.Context, rec *models.WebhookReceipt) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO webhook_receipts (
			event_id, order_id, order_status, payment_status, received_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		rec.EventID,
		rec.OrderID,
		rec.OrderStatus,
		rec.PaymentStatus,
		rec.ReceivedAt,
	)
	return err
}

// ListUnresolvedOrders returns records still awaiting a terminal outcome.
func (s *Store) ListUnresolvedOrders(ctx context.Context) ([]*models.OrderRecord, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT order_id, customer_id, customer_name, customer_email,
			customer_phone, order_amount, currency, expires_at,
			outcome, resolved_at, created_at, updated_at
		FROM orders
		WHERE outcome='created'
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.OrderRecord
	for rows.Next() {
		var rec models.OrderRecord
		var resolvedAt sql.NullTime
		if err := rows.Scan(
			&rec.OrderID,
			&rec.CustomerID,
			&rec.CustomerName,
			&rec.CustomerEmail,
			&rec.CustomerPhone,
			&rec.OrderAmount,
			&rec.Currency,
			&rec.ExpiresAt,
			&rec.Outcome,
			&resolvedAt,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if resolvedAt.Valid {
			rec.ResolvedAt = &resolvedAt.Time
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// ResolveOrder stamps a terminal outcome onto a still-unresolved record.
// The outcome guard makes the update idempotent across overlapping sweeps.
func (s *Store) ResolveOrder(ctx context.Context, orderID string, outcome models.OrderOutcome, resolvedAt time.Time) (int64, error) {
	res, err := s.Pool.Exec(ctx, `
		UPDATE orders
		SET outcome=$2, resolved_at=$3, updated_at=now()
		WHERE order_id=$1 AND outcome='created'
	`, orderID, outcome, resolvedAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
