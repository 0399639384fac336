package repository

import (
	"context"
	"time"

	"talkpdf-backend/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PendingPayment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PendingPayment, error)
	FindByTxRef(ctx context.Context, tx Tx, txRef string) (*model.PendingPayment, error)
	// UpdateStatusIfPending transitions the row only while its current status
	// is still 'pending'; reports whether a row was updated. This is the guard
	// that keeps terminal states from regressing under concurrent verifies.
	UpdateStatusIfPending(ctx context.Context, tx Tx, id string, status model.PaymentStatus, providerTxID *string, paidAt *time.Time) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.PendingPayment, error)
	SumCompletedByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
