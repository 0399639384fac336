// File: internal/usecase/usage_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain"
)

// CounterStore is the shared counter backend (Redis in production). Counters
// are approximate by design; they gate convenience quotas, not correctness.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Count(ctx context.Context, key string) (int64, error)
}

var _ UsageUseCase = (*usageUC)(nil)

type UsageUseCase interface {
	// ConsumeUpload spends one daily upload credit and returns the remainder.
	ConsumeUpload(ctx context.Context, userID string) (int, error)
	// RemainingUploads reports today's remaining quota without consuming.
	RemainingUploads(ctx context.Context, userID string) (int, error)
}

type usageUC struct {
	entitlements EntitlementUseCase
	counters     CounterStore
	log          *zerolog.Logger
}

func NewUsageUseCase(entitlements EntitlementUseCase, counters CounterStore, logger *zerolog.Logger) *usageUC {
	return &usageUC{entitlements: entitlements, counters: counters, log: logger}
}

func uploadKey(userID string, day time.Time) string {
	return fmt.Sprintf("usage:uploads:%s:%s", userID, day.UTC().Format("2006-01-02"))
}

func (u *usageUC) ConsumeUpload(ctx context.Context, userID string) (int, error) {
	_, ents, err := u.entitlements.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	key := uploadKey(userID, now)
	n, err := u.counters.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// Window ends at UTC midnight; small drift is acceptable here.
		endOfDay := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		if err := u.counters.Expire(ctx, key, time.Until(endOfDay)); err != nil {
			return 0, err
		}
	}
	if n > int64(ents.DailyUploads) {
		return 0, domain.ErrQuotaExhausted
	}
	return ents.DailyUploads - int(n), nil
}

func (u *usageUC) RemainingUploads(ctx context.Context, userID string) (int, error) {
	_, ents, err := u.entitlements.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	n, err := u.counters.Count(ctx, uploadKey(userID, time.Now()))
	if err != nil {
		return 0, err
	}
	remaining := ents.DailyUploads - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
