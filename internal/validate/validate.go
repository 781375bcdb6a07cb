package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"PGCheckout/internal/models"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidationError carries the human-readable message for the first failing
// field of an order request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AsValidation reports whether err is a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// OrderRequest checks the candidate request field by field, first failure
// wins. The order matches the payment form's field layout so server-side
// errors line up with what the client would have reported:
// amount, name, email, phone. customer_id is optional and unchecked.
// On success the request is returned normalized (name trimmed).
func OrderRequest(req models.OrderRequest) (models.OrderRequest, error) {
	amount, err := strconv.ParseFloat(req.OrderAmount.String(), 64)
	if err != nil || amount <= 0 {
		return req, &ValidationError{
			Field:   "order_amount",
			Message: `"order_amount" must be a positive number`,
		}
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return req, &ValidationError{
			Field:   "customer_name",
			Message: `"customer_name" is not allowed to be empty`,
		}
	}

	if !emailRe.MatchString(req.CustomerEmail) {
		return req, &ValidationError{
			Field:   "customer_email",
			Message: `"customer_email" must be a valid email`,
		}
	}

	if !phoneRe.MatchString(req.CustomerPhone) {
		return req, &ValidationError{
			Field:   "customer_phone",
			Message: `"customer_phone" must be a 10-digit number`,
		}
	}

	req.CustomerName = name
	return req, nil
}

// Amount parses an already-validated amount. Callers run OrderRequest
// first, so a parse failure here is a programming error and reads as zero.
func Amount(n string) float64 {
	v, _ := strconv.ParseFloat(n, 64)
	return v
}
