package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // redirected to gateway; awaiting verification
	PaymentStatusCompleted PaymentStatus = "completed" // verified OK at provider, entitlement granted
	PaymentStatusFailed    PaymentStatus = "failed"    // verification failed or checkout abandoned
)

// Terminal reports whether a status may never change again.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PendingPayment records one payment intent against the external provider.
// Amount and Currency are fixed at creation from the price table and are
// never altered afterward.
type PendingPayment struct {
	ID           string // UUID
	UserID       string // UUID of the owning user
	TxRef        string // local reference, generated at intent time, unique
	ProviderTxID *string // provider transaction id, nil until verified
	Plan         PlanID
	BillingCycle BillingCycle
	Amount       int64  // minor units
	Currency     string // ISO code, e.g. "NGN"
	Status       PaymentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PaidAt       *time.Time // set when completed
}
