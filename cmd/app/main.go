// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"talkpdf-backend/internal/config"
	"talkpdf-backend/internal/domain/ports/adapter"
	"talkpdf-backend/internal/infra/api"
	pg "talkpdf-backend/internal/infra/db/postgres"
	"talkpdf-backend/internal/infra/logging"
	"talkpdf-backend/internal/infra/mail"
	"talkpdf-backend/internal/infra/metrics"
	pay "talkpdf-backend/internal/infra/payment"
	red "talkpdf-backend/internal/infra/redis"
	"talkpdf-backend/internal/infra/sched"
	"talkpdf-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	usageCounter := red.NewUsageCounter(redisClient)

	// ---- Repositories ----
	payRepo := pg.NewPaymentRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	boardRepo := pg.NewLeaderboardRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Adapters ----
	gateway := pay.NewFlutterwaveGateway(cfg.Payment.Flutterwave.SecretKey, cfg.Payment.Flutterwave.BaseURL)
	var mailer adapter.Mailer = mail.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.BaseURL, cfg.Mail.From)
	if cfg.Runtime.Dev || cfg.Mail.APIKey == "" {
		logger.Warn().Msg("mail.api_key not set; confirmation emails disabled")
		mailer = mail.NoopMailer{}
	}

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(payRepo, userRepo, gateway, mailer, tm, logger)
	entitlementUC := usecase.NewEntitlementUseCase(userRepo, logger)
	usageUC := usecase.NewUsageUseCase(entitlementUC, usageCounter, logger)
	leaderboardUC := usecase.NewLeaderboardUseCase(boardRepo, logger)

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Auth.JWTSecret)
	srv := api.NewServer(paymentUC, entitlementUC, usageUC, leaderboardUC, auth, rateLimiter, cfg.RateLimit.PerMinute, cfg.Server.RequestTimeout, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Stale payment sweeper ----
	worker := sched.NewStalePaymentWorker(paymentUC, cfg.Sweeper.Interval, cfg.Sweeper.PendingTTL, logger)
	go worker.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	_ = server.Shutdown(shutdownCtx)
}
