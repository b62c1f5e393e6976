package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-channel-gate/internal/application"
	"telegram-channel-gate/internal/config"
	"telegram-channel-gate/internal/domain/ports/repository"
	tele "telegram-channel-gate/internal/infra/adapters/telegram"
	pg "telegram-channel-gate/internal/infra/db/postgres"
	"telegram-channel-gate/internal/infra/i18n"
	"telegram-channel-gate/internal/infra/logging"
	"telegram-channel-gate/internal/infra/memory"
	"telegram-channel-gate/internal/infra/metrics"
	red "telegram-channel-gate/internal/infra/redis"
	"telegram-channel-gate/internal/infra/web"
	"telegram-channel-gate/internal/infra/worker"
	"telegram-channel-gate/internal/usecase"
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
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	stateRepo := red.NewStateRepo(redisClient)

	// ---- Broadcast run log (Postgres when configured, memory otherwise) ----
	var runRepo repository.BroadcastRunRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		runRepo = pg.NewBroadcastRunRepo(pool)
	} else {
		logger.Info().Msg("database.url not set; keeping broadcast run log in memory")
		runRepo = memory.NewBroadcastRunRepo()
	}

	registry := memory.NewRecipientRegistry()

	// ---- Localization ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "uz")
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Telegram adapter (outbound port first, facade attached below) ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, translator, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	// ---- Worker pool ----
	pool := worker.NewPool(cfg.Bot.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Use cases ----
	accessUC := usecase.NewAccessUseCase(cfg.Bot.AdminUsername)
	subscriptionUC := usecase.NewSubscriptionUseCase(botAdapter, cfg.Bot.ChannelID, logger)
	broadcastUC := usecase.NewBroadcastUseCase(registry, runRepo, stateRepo, botAdapter, pool, logger)
	statsUC := usecase.NewStatsUseCase(registry, runRepo)

	// ---- Facade ----
	facade := application.NewBotFacade(accessUC, subscriptionUC, broadcastUC, statsUC, registry, logger)
	botAdapter.AttachFacade(facade)

	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- HTTP server: liveness, metrics, admin stats API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	srv := web.NewServer(statsUC, auth, cfg.Admin.APIPassword, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
}
