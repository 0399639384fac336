package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"talkpdf-backend/internal/domain"
	"talkpdf-backend/internal/domain/model"
	"talkpdf-backend/internal/infra/logging"
	"talkpdf-backend/internal/infra/metrics"
	red "talkpdf-backend/internal/infra/redis"
	"talkpdf-backend/internal/usecase"
)

// Server wires the payment, entitlement, usage and leaderboard endpoints.
type Server struct {
	payUC   usecase.PaymentUseCase
	entUC   usecase.EntitlementUseCase
	usageUC usecase.UsageUseCase
	lbUC    usecase.LeaderboardUseCase
	auth    *AuthManager
	limiter *red.RateLimiter
	perMin  int
	timeout time.Duration
	log     *zerolog.Logger
}

func NewServer(
	payUC usecase.PaymentUseCase,
	entUC usecase.EntitlementUseCase,
	usageUC usecase.UsageUseCase,
	lbUC usecase.LeaderboardUseCase,
	auth *AuthManager,
	limiter *red.RateLimiter,
	perMinute int,
	timeout time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		payUC: payUC, entUC: entUC, usageUC: usageUC, lbUC: lbUC,
		auth: auth, limiter: limiter, perMin: perMinute, timeout: timeout, log: logger,
	}
}

// Router builds the chi mux with the shared middleware chain.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	base := []Middleware{TraceID(), RequestLog(s.log), Recover(s.log), Timeout(s.timeout)}
	authed := func(extra ...Middleware) []Middleware {
		mws := make([]Middleware, 0, len(base)+1+len(extra))
		mws = append(mws, base...)
		mws = append(mws, Authenticated(s.auth))
		return append(mws, extra...)
	}

	r.Method(http.MethodPost, "/api/v1/payments/initiate",
		Chain(http.HandlerFunc(s.handleInitiate), authed(RateLimit(s.limiter, "payments_initiate", s.perMin, s.log))...))
	r.Method(http.MethodPost, "/api/v1/payments/verify",
		Chain(http.HandlerFunc(s.handleVerify), authed(RateLimit(s.limiter, "payments_verify", s.perMin, s.log))...))
	r.Method(http.MethodGet, "/api/v1/entitlements",
		Chain(http.HandlerFunc(s.handleEntitlements), authed()...))
	r.Method(http.MethodPost, "/api/v1/usage/uploads",
		Chain(http.HandlerFunc(s.handleConsumeUpload), authed()...))
	r.Method(http.MethodGet, "/api/v1/usage/uploads",
		Chain(http.HandlerFunc(s.handleRemainingUploads), authed()...))
	r.Method(http.MethodGet, "/api/v1/leaderboard",
		Chain(http.HandlerFunc(s.handleLeaderboard), base...))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}

// ---- payments ----

type initiateRequest struct {
	Plan         string `json:"plan"`
	BillingCycle string `json:"billingCycle"`
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, link, err := s.payUC.Initiate(r.Context(), callerID(r), req.Plan, req.BillingCycle, r.Header.Get("Origin"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"paymentLink": link,
		"tx_ref":      p.TxRef,
	})
}

type verifyRequest struct {
	TransactionID string `json:"transaction_id"`
	TxRef         string `json:"tx_ref"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.PaymentVerifyRequests.WithLabelValues("fail", "bad_json").Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := logging.WithTxRef(r.Context(), req.TxRef)
	outcome, err := s.payUC.Verify(ctx, callerID(r), req.TransactionID, req.TxRef)
	if err != nil {
		metrics.PaymentVerifyRequests.WithLabelValues("fail", verifyErrReason(err)).Inc()
		metrics.PaymentVerifyDuration.WithLabelValues("fail").Observe(time.Since(start).Seconds())
		s.fail(w, r, err)
		return
	}
	if !outcome.Completed {
		metrics.PaymentVerifyRequests.WithLabelValues("fail", outcome.Reason).Inc()
		metrics.PaymentVerifyDuration.WithLabelValues("fail").Observe(time.Since(start).Seconds())
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": outcome.Message,
		})
		return
	}

	metrics.PaymentVerifyRequests.WithLabelValues("ok", "").Inc()
	metrics.PaymentVerifyDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": outcome.Message,
		"plan":    outcome.Plan,
	})
}

func verifyErrReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "not_owner"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return "vendor_error"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "bad_json"
	case errors.Is(err, domain.ErrOperationFailed):
		return "store_error"
	}
	return "unknown"
}

// ---- entitlements / usage / leaderboard ----

func (s *Server) handleEntitlements(w http.ResponseWriter, r *http.Request) {
	plan, ents, err := s.entUC.Get(r.Context(), callerID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan":                 plan,
		"daily_uploads":        ents.DailyUploads,
		"monthly_audio_credit": ents.MonthlyAudioCredit,
		"languages":            ents.Languages,
		"quiz_generator":       ents.QuizGenerator,
		"offline_downloads":    ents.OfflineDownloads,
		"priority_voices":      ents.PriorityVoices,
	})
}

func (s *Server) handleConsumeUpload(w http.ResponseWriter, r *http.Request) {
	remaining, err := s.usageUC.ConsumeUpload(r.Context(), callerID(r))
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExhausted) {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{
				"success": false,
				"message": model.UpgradeMessage("daily_uploads"),
			})
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "remaining": remaining})
}

func (s *Server) handleRemainingUploads(w http.ResponseWriter, r *http.Request) {
	remaining, err := s.usageUC.RemainingUploads(r.Context(), callerID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"remaining": remaining})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.lbUC.Top(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	type entry struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
		XP          int64  `json:"xp"`
		Rank        int    `json:"rank"`
	}
	out := make([]entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entry{UserID: row.UserID, DisplayName: row.DisplayName, XP: row.XP, Rank: row.Rank})
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- response helpers ----

// fail maps domain errors to the HTTP taxonomy. Details stay in the log; the
// caller gets a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	l := logging.With(r.Context(), s.log)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstreamFailure):
		l.Error().Err(err).Msg("upstream failure")
		writeError(w, http.StatusInternalServerError, "payment provider unavailable")
	default:
		l.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
