package repository

import (
	"context"
	"time"

	"talkpdf-backend/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.UserProfile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.UserProfile, error)
	// UpdateSubscription sets the entitlement fields as one write. Called only
	// from the payment verifier on a fully validated payment.
	UpdateSubscription(ctx context.Context, tx Tx, userID string, plan model.PlanID, status model.SubscriptionStatus, startedAt time.Time) error
}
