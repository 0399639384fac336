package adapter

import (
	"context"
	"time"
)

// ChargeRequest carries everything the provider needs to start a checkout.
type ChargeRequest struct {
	TxRef         string
	Amount        int64 // minor units
	Currency      string
	RedirectURL   string
	CustomerEmail string
	Title         string
}

// VerifiedTransaction is the provider's ground truth for one transaction.
type VerifiedTransaction struct {
	ProviderTxID string
	TxRef        string // reference echoed back by the provider
	Amount       int64
	Currency     string
	Successful   bool
	PaidAt       time.Time
}

// PaymentGateway is the hex port for the payment provider.
type PaymentGateway interface {
	Name() string

	// CreateCharge initiates a checkout and returns the hosted payment link.
	CreateCharge(ctx context.Context, req ChargeRequest) (paymentLink string, err error)
	// VerifyTransaction re-queries the provider for the authoritative state of
	// a transaction. The returned values, not the caller's, are trusted.
	VerifyTransaction(ctx context.Context, providerTxID string) (*VerifiedTransaction, error)
}
