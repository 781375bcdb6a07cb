// Package payments holds the policy that reduces the provider's raw
// payment attempts for an order into a single order-level status.
package payments

import "PGCheckout/internal/models"

// Aggregate derives one status from the full attempt list. Precedence, not
// chronology: a single SUCCESS wins over any number of pending or failed
// retries, then any PENDING, and an empty or all-failed list reads as
// Failure.
func Aggregate(attempts []models.PaymentAttempt) models.AggregatedStatus {
	pending := false
	for _, a := range attempts {
		switch a.PaymentStatus {
		case models.PaymentSuccess:
			return models.StatusSuccess
		case models.PaymentPending:
			pending = true
		}
	}
	if pending {
		return models.StatusPending
	}
	return models.StatusFailure
}

// Terminal reports whether a status cannot change on its own: Success is
// final immediately, Pending may still settle either way.
func Terminal(status models.AggregatedStatus) bool {
	return status == models.StatusSuccess || status == models.StatusFailure
}
