//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/model"
	"talkpdf-backend/internal/domain/ports/adapter"
	"talkpdf-backend/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu   sync.Mutex
	byID map[string]*model.PendingPayment

	SaveFunc                  func(ctx context.Context, tx repository.Tx, p *model.PendingPayment) error
	FindByTxRefFunc           func(ctx context.Context, tx repository.Tx, txRef string) (*model.PendingPayment, error)
	UpdateStatusIfPendingFunc func(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, providerTxID *string, paidAt *time.Time) (bool, error)
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byID: map[string]*model.PendingPayment{}}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PendingPayment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindByTxRef(ctx context.Context, tx repository.Tx, txRef string) (*model.PendingPayment, error) {
	if m.FindByTxRefFunc != nil {
		return m.FindByTxRefFunc(ctx, tx, txRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.TxRef == txRef {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus, providerTxID *string, paidAt *time.Time) (bool, error) {
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, tx, id, status, providerTxID, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	if providerTxID != nil {
		p.ProviderTxID = providerTxID
	}
	if paidAt != nil {
		p.PaidAt = paidAt
	}
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PendingPayment
	for _, p := range m.byID {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPaymentRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, p := range m.byID {
		if p.Status == model.PaymentStatusCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

// Get returns the stored record without copying semantics for assertions.
func (m *MockPaymentRepo) Get(id string) *model.PendingPayment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.UserProfile

	// number of UpdateSubscription invocations, for idempotence assertions
	SubscriptionUpdates int

	UpdateSubscriptionFunc func(ctx context.Context, tx repository.Tx, userID string, plan model.PlanID, status model.SubscriptionStatus, startedAt time.Time) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{byID: map[string]*model.UserProfile{}}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) UpdateSubscription(ctx context.Context, tx repository.Tx, userID string, plan model.PlanID, status model.SubscriptionStatus, startedAt time.Time) error {
	if m.UpdateSubscriptionFunc != nil {
		return m.UpdateSubscriptionFunc(ctx, tx, userID, plan, status, startedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscriptionPlan = plan
	u.SubscriptionStatus = status
	u.SubscriptionStartedAt = &startedAt
	m.SubscriptionUpdates++
	return nil
}

func (m *MockUserRepo) Get(id string) *model.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	CreateChargeFunc      func(ctx context.Context, req adapter.ChargeRequest) (string, error)
	VerifyTransactionFunc func(ctx context.Context, providerTxID string) (*adapter.VerifiedTransaction, error)

	VerifyCalls int
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateCharge(ctx context.Context, req adapter.ChargeRequest) (string, error) {
	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, req)
	}
	return "https://pay.test/checkout/" + req.TxRef, nil
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, providerTxID string) (*adapter.VerifiedTransaction, error) {
	m.VerifyCalls++
	if m.VerifyTransactionFunc != nil {
		return m.VerifyTransactionFunc(ctx, providerTxID)
	}
	return nil, domain.ErrUpstreamFailure
}

// ---- Mock Mailer ----

type MockMailer struct {
	mu   sync.Mutex
	Sent []string // recipient addresses

	SendFunc func(ctx context.Context, to string, plan string, amount int64, currency string) error
}

var _ adapter.Mailer = (*MockMailer)(nil)

func (m *MockMailer) SendPaymentConfirmation(ctx context.Context, to string, plan string, amount int64, currency string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, plan, amount, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to)
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

// ---- Mock CounterStore ----

type MockCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{counts: map[string]int64{}}
}

func (m *MockCounterStore) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *MockCounterStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

func (m *MockCounterStore) Count(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

// ---- Mock LeaderboardRepository ----

type MockLeaderboardRepo struct {
	Rows []repository.LeaderboardRow

	TopSinceFunc func(ctx context.Context, tx repository.Tx, sinceDays int, limit int) ([]repository.LeaderboardRow, error)
}

var _ repository.LeaderboardRepository = (*MockLeaderboardRepo)(nil)

func (m *MockLeaderboardRepo) TopSince(ctx context.Context, tx repository.Tx, sinceDays int, limit int) ([]repository.LeaderboardRow, error) {
	if m.TopSinceFunc != nil {
		return m.TopSinceFunc(ctx, tx, sinceDays, limit)
	}
	if limit > len(m.Rows) {
		limit = len(m.Rows)
	}
	return m.Rows[:limit], nil
}
