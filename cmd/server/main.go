package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/ideaji/internal/ai"
	"github.com/oggyb/ideaji/internal/app"
	"github.com/oggyb/ideaji/internal/cache"
	"github.com/oggyb/ideaji/internal/config"
	"github.com/oggyb/ideaji/internal/db"
	"github.com/oggyb/ideaji/internal/handlers"
	"github.com/oggyb/ideaji/internal/logger"
	"github.com/oggyb/ideaji/internal/mail"
	"github.com/oggyb/ideaji/internal/middleware"
	"github.com/oggyb/ideaji/internal/server"
	"github.com/oggyb/ideaji/internal/service/analysis"
	"github.com/oggyb/ideaji/internal/service/auth"
	"github.com/oggyb/ideaji/internal/service/chat"
	"github.com/oggyb/ideaji/internal/service/feedback"
	"github.com/oggyb/ideaji/internal/service/idea"
	"github.com/oggyb/ideaji/internal/service/leaderboard"
	"github.com/oggyb/ideaji/internal/service/notification"
	"github.com/oggyb/ideaji/internal/service/reward"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// Inject logger into app context
	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mailer := mail.New(cfg, log)
	if !mailer.Enabled() {
		log.Warn("RESEND_API_KEY not set, welcome emails are disabled")
	}
	aiClient := ai.New(cfg)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(ctx, 5*time.Minute)

	router := handlers.NewRouter(handlers.Deps{
		AppCtx:         appCtx,
		Verifier:       tokens,
		Limiter:        limiter,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Auth:           auth.NewAuthService(appCtx, tokens, mailer),
		Ideas:          idea.NewIdeaService(appCtx),
		Feedback:       feedback.NewFeedbackService(appCtx),
		Notifications:  notification.NewNotificationService(appCtx),
		Rewards:        reward.NewRewardService(appCtx),
		Chats:          chat.NewChatService(appCtx),
		Analysis:       analysis.NewAnalysisService(appCtx, aiClient),
		Leaderboard:    leaderboard.NewLeaderboardService(appCtx),
	})

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcSrv := server.NewGRPCServer(tokens, log, feedback.NewRegistrar(appCtx))

	errCh := make(chan error, 2)
	go func() {
		log.Info("starting HTTP server", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		log.Info("starting gRPC server", "addr", net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port))
		if err := server.StartGRPCServer(ctx, cfg, grpcSrv); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server failed", "err", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	grpcSrv.GracefulStop()
}
