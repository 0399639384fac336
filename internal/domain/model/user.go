package model

import (
	"time"

	"talkpdf-backend/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusNone   SubscriptionStatus = "none"
	SubscriptionStatusActive SubscriptionStatus = "active"
)

// UserProfile is the per-user entitlement record. The subscription fields are
// mutated only as a side effect of a successfully verified payment;
// SubscriptionStartedAt anchors monthly credit tracking elsewhere.
type UserProfile struct {
	ID                    string
	Email                 string
	DisplayName           string
	SubscriptionPlan      PlanID
	SubscriptionStatus    SubscriptionStatus
	SubscriptionStartedAt *time.Time
	CreatedAt             time.Time
}

func NewUserProfile(id, email string) (*UserProfile, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &UserProfile{
		ID:                 id,
		Email:              email,
		SubscriptionPlan:   PlanFree,
		SubscriptionStatus: SubscriptionStatusNone,
		CreatedAt:          time.Now(),
	}, nil
}

func (u *UserProfile) IsZero() bool { return u == nil || u.ID == "" }
