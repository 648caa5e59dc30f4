package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/User133445/memevote-sub000/internal/config"
	"github.com/User133445/memevote-sub000/internal/db"
	"github.com/User133445/memevote-sub000/internal/handler"
	"github.com/User133445/memevote-sub000/internal/metrics"
	"github.com/User133445/memevote-sub000/internal/middleware"
	"github.com/User133445/memevote-sub000/internal/ratelimit"
	"github.com/User133445/memevote-sub000/internal/repository"
	"github.com/User133445/memevote-sub000/internal/router"
	"github.com/User133445/memevote-sub000/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "memevote")
	log := middleware.Logger

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	metrics.Init(pool)

	cache := service.NewCacheService(cfg.RedisURL, log)
	defer cache.Close()

	// Shared Redis counters keep the limits accurate across instances; a
	// single instance without Redis counts in memory.
	var store ratelimit.Store
	var memStore *ratelimit.MemoryStore
	if rdb := cache.Client(); rdb != nil {
		store = ratelimit.NewRedisStore(rdb, "ratelimit")
	} else {
		memStore = ratelimit.NewMemoryStore(5 * time.Minute)
		defer memStore.Stop()
		store = memStore
	}

	accountRepo := repository.NewAccountRepo(pool)
	voteRepo := repository.NewVoteRepo(pool)
	contentRepo := repository.NewContentRepo(pool)
	fraudRepo := repository.NewFraudRepo(pool, cfg.Fraud)
	rewardRepo := repository.NewRewardRepo(pool)

	tiers := service.NewTierService()
	fraud := service.NewFraudService(cfg.Fraud)
	virality := service.NewViralityService(cfg.Virality)

	gate := service.NewGateService(
		ratelimit.New(store, cfg.VoteRateMax, time.Duration(cfg.VoteRateWindowSecs)*time.Second),
		tiers, fraud,
		accountRepo, voteRepo, fraudRepo, fraudRepo,
		cache, log,
	)
	trending := service.NewTrendingService(contentRepo, virality, cache, log)
	rewards := service.NewRewardService(contentRepo, rewardRepo, fraud, cfg.Reward, log)

	scheduler, err := service.NewScheduler(cfg, trending, rewards, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid job schedule")
	}

	app := fiber.New(fiber.Config{
		AppName:      "MemeVote API",
		ServerHeader: "MemeVote",
	})

	router.Setup(app, &router.Handlers{
		Vote:     handler.NewVoteHandler(gate, cfg.IPHashSalt),
		Fraud:    handler.NewFraudHandler(gate, fraudRepo, cfg.IPHashSalt),
		Account:  handler.NewAccountHandler(accountRepo, tiers),
		Content:  handler.NewContentHandler(contentRepo, cache),
		Trending: handler.NewTrendingHandler(trending, cache),
		Reward:   handler.NewRewardHandler(rewards, rewardRepo),
		Stats:    handler.NewStatsHandler(accountRepo, cfg.Fraud),
		Health:   handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins, store)

	scheduler.Start()

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Let in-flight batch jobs finish before the pool closes underneath them.
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("batch jobs still running at shutdown deadline")
	}

	log.Info().Msg("shutdown complete")
}
