package adapter

import "context"

// Mailer delivers transactional email. Callers treat delivery as best-effort.
type Mailer interface {
	SendPaymentConfirmation(ctx context.Context, to string, plan string, amount int64, currency string) error
}
