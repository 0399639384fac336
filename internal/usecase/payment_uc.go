// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/model"
	"talkpdf-backend/internal/domain/ports/adapter"
	"talkpdf-backend/internal/domain/ports/repository"
	"talkpdf-backend/internal/infra/logging"
	"talkpdf-backend/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// VerifyOutcome is the caller-facing result of a verification attempt.
// Completed=false with a Message means the payment itself did not pass the
// checks; transport/storage problems are returned as errors instead.
type VerifyOutcome struct {
	Completed bool
	Message   string
	Plan      model.PlanID
	Reason    string // bounded label for metrics, empty on success
}

type PaymentUseCase interface {
	// Initiate validates the request, writes a pending payment and returns the
	// record plus the provider's hosted payment link.
	Initiate(ctx context.Context, userID, plan, cycle, origin string) (*model.PendingPayment, string, error)
	// Verify re-queries the provider for ground truth and, if every check
	// passes, completes the payment and grants the plan. Safe to retry.
	Verify(ctx context.Context, userID, providerTxID, txRef string) (*VerifyOutcome, error)
	// FailStalePending transitions abandoned pending payments to failed.
	FailStalePending(ctx context.Context, olderThan time.Time, limit int) (int, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	gateway  adapter.PaymentGateway
	mailer   adapter.Mailer
	tm       repository.TransactionManager
	log      *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	mailer adapter.Mailer,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{payments: payments, users: users, gateway: gateway, mailer: mailer, tm: tm, log: logger}
}

// newTxRef builds the local transaction reference: ULID already encodes
// millisecond time plus random entropy, so collisions are negligible.
func newTxRef() string {
	return "TPDF-" + ulid.Make().String()
}

// redirectPath is appended to the caller's origin for the post-checkout hop.
const redirectPath = "/dashboard/payment/callback"

func validateOrigin(origin string) (string, error) {
	if origin == "" {
		return "", fmt.Errorf("%w: missing origin", domain.ErrInvalidArgument)
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: origin must be an http(s) origin", domain.ErrInvalidArgument)
	}
	return u.Scheme + "://" + u.Host + redirectPath, nil
}

func (u *paymentUC) Initiate(ctx context.Context, userID, planStr, cycleStr, origin string) (*model.PendingPayment, string, error) {
	if userID == "" {
		return nil, "", domain.ErrUnauthorized
	}
	plan, err := model.ParsePlan(planStr)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidArgument, planStr)
	}
	cycle, err := model.ParseBillingCycle(cycleStr)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unknown billing cycle %q", domain.ErrInvalidArgument, cycleStr)
	}
	amount, err := model.PriceFor(plan, cycle)
	if err != nil {
		return nil, "", err
	}
	if amount <= 0 {
		return nil, "", fmt.Errorf("%w: non-positive amount", domain.ErrInvalidArgument)
	}
	redirectURL, err := validateOrigin(origin)
	if err != nil {
		return nil, "", err
	}

	profile, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	p := &model.PendingPayment{
		ID:           uuid.NewString(),
		UserID:       userID,
		TxRef:        newTxRef(),
		Plan:         plan,
		BillingCycle: cycle,
		Amount:       amount,
		Currency:     model.Currency,
		Status:       model.PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, "", err
	}

	link, err := u.gateway.CreateCharge(ctx, adapter.ChargeRequest{
		TxRef:         p.TxRef,
		Amount:        amount,
		Currency:      p.Currency,
		RedirectURL:   redirectURL,
		CustomerEmail: profile.Email,
		Title:         fmt.Sprintf("TalkPDF %s (%s)", plan, cycle),
	})
	if err != nil {
		// Provider details stay in the logs; the caller gets a generic error.
		logging.With(ctx, u.log).Error().Err(err).Str("tx_ref", p.TxRef).Msg("charge initiation failed")
		u.markFailed(ctx, p.ID)
		return nil, "", domain.ErrUpstreamFailure
	}

	metrics.IncPayment(string(model.PaymentStatusPending))
	return p, link, nil
}

func (u *paymentUC) Verify(ctx context.Context, userID, providerTxID, txRef string) (*VerifyOutcome, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if providerTxID == "" || txRef == "" {
		return nil, fmt.Errorf("%w: transaction_id and tx_ref are required", domain.ErrInvalidArgument)
	}

	p, err := u.payments.FindByTxRef(ctx, nil, txRef)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}

	// Retries and double deliveries of an already verified payment succeed
	// without another vendor round trip or entitlement write.
	if p.Status == model.PaymentStatusCompleted {
		return &VerifyOutcome{Completed: true, Message: "payment already verified", Plan: p.Plan}, nil
	}
	if p.Status == model.PaymentStatusFailed {
		return &VerifyOutcome{Completed: false, Message: "payment failed", Reason: "already_failed"}, nil
	}

	vtx, err := u.gateway.VerifyTransaction(ctx, providerTxID)
	if err != nil {
		logging.With(ctx, u.log).Error().Err(err).Str("tx_ref", txRef).Msg("vendor verification failed")
		u.markFailed(ctx, p.ID)
		return nil, domain.ErrUpstreamFailure
	}
	if !vtx.Successful {
		u.markFailed(ctx, p.ID)
		return &VerifyOutcome{Completed: false, Message: "payment was not successful", Reason: "not_successful"}, nil
	}

	if reason, msg := u.crossValidate(p, vtx); reason != "" {
		logging.With(ctx, u.log).Warn().
			Str("tx_ref", txRef).
			Str("reason", reason).
			Int64("vendor_amount", vtx.Amount).
			Str("vendor_currency", vtx.Currency).
			Msg("payment cross-validation failed")
		u.markFailed(ctx, p.ID)
		return &VerifyOutcome{Completed: false, Message: msg, Reason: reason}, nil
	}

	// Complete the payment and grant the plan in one transaction. The
	// conditional update closes the double-verification race: only one writer
	// can move pending->completed.
	now := time.Now()
	raced := false
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ok, err := u.payments.UpdateStatusIfPending(ctx, tx, p.ID, model.PaymentStatusCompleted, &vtx.ProviderTxID, &now)
		if err != nil {
			return err
		}
		if !ok {
			cur, err := u.payments.FindByID(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			if cur.Status != model.PaymentStatusCompleted {
				return domain.ErrPaymentNotApproved
			}
			raced = true
			return nil // concurrent verify won; entitlement already granted
		}
		return u.users.UpdateSubscription(ctx, tx, p.UserID, p.Plan, model.SubscriptionStatusActive, now)
	})
	if err != nil {
		if err == domain.ErrPaymentNotApproved {
			return &VerifyOutcome{Completed: false, Message: "payment failed", Reason: "already_failed"}, nil
		}
		return nil, err
	}

	if !raced {
		metrics.IncPayment(string(model.PaymentStatusCompleted))
		metrics.AddPaymentRevenue(p.Currency, p.Amount)
		u.sendConfirmation(ctx, p)
	}

	return &VerifyOutcome{Completed: true, Message: "payment verified", Plan: p.Plan}, nil
}

// crossValidate runs the anti-tampering checks against the vendor's report.
// Returns a bounded reason label and a non-sensitive message, or "" when all
// checks pass.
func (u *paymentUC) crossValidate(p *model.PendingPayment, vtx *adapter.VerifiedTransaction) (string, string) {
	if vtx.TxRef != p.TxRef {
		return "ref_mismatch", "transaction reference mismatch"
	}
	expected, err := model.PriceFor(p.Plan, p.BillingCycle)
	if err != nil || p.Amount != expected {
		return "amount_mismatch", "payment amount could not be validated"
	}
	if vtx.Currency != p.Currency {
		return "currency_mismatch", "unexpected payment currency"
	}
	if vtx.Amount < p.Amount {
		return "underpaid", "paid amount is less than the plan price"
	}
	return "", ""
}

// markFailed moves the record to failed through the same conditional update,
// so a completed record can never be demoted.
func (u *paymentUC) markFailed(ctx context.Context, paymentID string) {
	if _, err := u.payments.UpdateStatusIfPending(ctx, nil, paymentID, model.PaymentStatusFailed, nil, nil); err != nil {
		logging.With(ctx, u.log).Error().Err(err).Str("payment_id", paymentID).Msg("mark failed")
		return
	}
	metrics.IncPayment(string(model.PaymentStatusFailed))
}

// sendConfirmation is best-effort: the payment is already durably committed,
// so mail errors are logged and swallowed.
func (u *paymentUC) sendConfirmation(ctx context.Context, p *model.PendingPayment) {
	profile, err := u.users.FindByID(ctx, nil, p.UserID)
	if err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("confirmation mail: profile lookup failed")
		metrics.IncMail("error")
		return
	}
	if err := u.mailer.SendPaymentConfirmation(ctx, profile.Email, string(p.Plan), p.Amount, p.Currency); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("confirmation mail failed")
		metrics.IncMail("error")
		return
	}
	metrics.IncMail("sent")
}

func (u *paymentUC) FailStalePending(ctx context.Context, olderThan time.Time, limit int) (int, error) {
	stale, err := u.payments.ListPendingOlderThan(ctx, nil, olderThan, limit)
	if err != nil {
		if err == domain.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, p := range stale {
		ok, err := u.payments.UpdateStatusIfPending(ctx, nil, p.ID, model.PaymentStatusFailed, nil, nil)
		if err != nil {
			return n, err
		}
		if ok {
			metrics.IncPayment(string(model.PaymentStatusFailed))
			n++
		}
	}
	return n, nil
}
