package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"jobradar/common/cache"
	"jobradar/common/cache/redis"
	"jobradar/common/telemetry"
	"jobradar/internal/adzuna"
	"jobradar/internal/config"
	"jobradar/internal/messaging"
	"jobradar/internal/scheduler"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("failed to sync logger: %v", err)
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.InitTracer(context.Background(), "jobradar-ingestion", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("failed to init tracing, continuing without", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	logger.Info("starting ingestion service",
		zap.String("adzuna_base_url", cfg.AdzunaBaseURL),
		zap.String("country", cfg.AdzunaCountry),
		zap.Int("roles", len(cfg.ScrapeRoles)),
		zap.Int("locations", len(cfg.ScrapeLocations)),
		zap.Duration("scrape_interval", cfg.ScrapeInterval))

	searchCache := redis.New(cache.Options{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		DefaultTTL: cfg.CacheTTL,
	})
	defer func() {
		if err := searchCache.Close(); err != nil {
			logger.Warn("failed to close cache", zap.Error(err))
		}
	}()

	client := adzuna.NewJobSearchClient(logger, cfg, searchCache)

	publisher, err := messaging.NewPublisher(logger, cfg)
	if err != nil {
		logger.Fatal("failed to create NATS publisher", zap.Error(err))
	}
	defer publisher.Close()

	scrapeScheduler := scheduler.NewScrapeScheduler(client, publisher, logger, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := scrapeScheduler.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("scrape scheduler failed", zap.Error(err))
		}
	}()

	logger.Info("ingestion service started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	scrapeScheduler.Stop()
	logger.Info("shutdown complete")
}
