package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"talkpdf-backend/internal/usecase"
)

// StalePaymentWorker periodically fails pending payments whose checkout was
// abandoned. The transition goes through the same conditional update as the
// verifier, so completed rows are never touched.
type StalePaymentWorker struct {
	uc         usecase.PaymentUseCase
	interval   time.Duration
	pendingTTL time.Duration
	log        *zerolog.Logger
}

func NewStalePaymentWorker(uc usecase.PaymentUseCase, interval, pendingTTL time.Duration, logger *zerolog.Logger) *StalePaymentWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if pendingTTL <= 0 {
		pendingTTL = 24 * time.Hour
	}
	return &StalePaymentWorker{uc: uc, interval: interval, pendingTTL: pendingTTL, log: logger}
}

func (w *StalePaymentWorker) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *StalePaymentWorker) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.pendingTTL)
	n, err := w.uc.FailStalePending(ctx, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("stale-payment sweep failed")
		return
	}
	if n > 0 {
		w.log.Info().Int("count", n).Msg("stale pending payments failed")
	}
}
