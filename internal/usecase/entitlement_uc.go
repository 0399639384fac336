// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/model"
	"talkpdf-backend/internal/domain/ports/repository"
)

var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase derives the feature/limit table for a caller's current
// plan. Read-only; never mutates anything.
type EntitlementUseCase interface {
	Get(ctx context.Context, userID string) (model.PlanID, model.Entitlements, error)
	CanAccessLanguage(ctx context.Context, userID, lang string) (bool, error)
}

type entitlementUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewEntitlementUseCase(users repository.UserRepository, logger *zerolog.Logger) *entitlementUC {
	return &entitlementUC{users: users, log: logger}
}

func (u *entitlementUC) Get(ctx context.Context, userID string) (model.PlanID, model.Entitlements, error) {
	if userID == "" {
		return "", model.Entitlements{}, domain.ErrUnauthorized
	}
	profile, err := u.users.FindByID(ctx, nil, userID)
	if err == domain.ErrNotFound {
		// No profile row yet: most restrictive tier.
		return model.PlanFree, model.EntitlementsFor(model.PlanFree), nil
	}
	if err != nil {
		return "", model.Entitlements{}, err
	}
	plan := profile.SubscriptionPlan
	ents := model.EntitlementsFor(plan)
	if plan != model.PlanFree && profile.SubscriptionStatus != model.SubscriptionStatusActive {
		plan = model.PlanFree
		ents = model.EntitlementsFor(model.PlanFree)
	}
	return plan, ents, nil
}

func (u *entitlementUC) CanAccessLanguage(ctx context.Context, userID, lang string) (bool, error) {
	_, ents, err := u.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return ents.CanAccessLanguage(lang), nil
}
