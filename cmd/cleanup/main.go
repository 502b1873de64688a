package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"namecard/internal/config"
	"namecard/internal/infra/cache"
	"namecard/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("NAMECARD_CONFIG"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		UseTLS:   cfg.Redis.UseTLS,
	})

	logger.Info("starting cache cleanup", zap.Duration("older_than", cfg.Cleanup.OlderThan))

	if err := rc.DeleteOlderThan(context.Background(), cfg.Cleanup.OlderThan); err != nil {
		logger.Fatal("cleanup failed", zap.Error(err))
	}

	logger.Info("cache cleanup completed")
}
