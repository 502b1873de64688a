package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"namecard/internal/config"
	"namecard/internal/domain"
	"namecard/internal/infra/avatar"
	"namecard/internal/infra/cache"
	"namecard/internal/infra/sources"
	"namecard/internal/logging"
	"namecard/internal/metrics"
	"namecard/internal/transport/eventbus"
	"namecard/internal/transport/httpapi"
	"namecard/internal/usecase"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace, nil)
	}

	var rc domain.CardCache
	if cfg.Redis.Enabled {
		rc = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			UseTLS:   cfg.Redis.UseTLS,
		})
	}

	api := sources.NewAPIClient(sources.APIConfig{
		BaseURL:     cfg.Upstream.BaseURL,
		ProfilePath: cfg.Upstream.ProfilePath,
		CardPath:    cfg.Upstream.CardPath,
		Timeout:     cfg.Upstream.Timeout,
	})

	uc := usecase.NewCardExporter(usecase.Options{
		Cards:    api,
		Profiles: api,
		Avatars: avatar.NewHTTPFetcher(avatar.Config{
			Timeout:      cfg.Avatar.Timeout,
			MaxBytes:     cfg.Avatar.MaxBytes,
			AllowedHosts: cfg.Avatar.AllowedHosts,
			AllowPrivate: cfg.Avatar.AllowPrivate,
		}, logger, m),
		Cache:    rc,
		CacheTTL: cfg.Redis.TTL,
		Logger:   logger,
		Metrics:  m,
	})

	if cfg.Kafka.Enabled && rc != nil {
		kcfg := eventbus.KafkaConfig{
			Brokers:   cfg.Kafka.Brokers,
			GroupID:   cfg.Kafka.GroupID,
			CardTopic: cfg.Kafka.CardTopic,
		}
		reader := eventbus.NewKafkaReader(kcfg)
		defer reader.Close()

		consumer := eventbus.NewEventBusConsumer(rc, kcfg, logger)
		go func() {
			if err := consumer.Run(ctx, reader); err != nil {
				logger.Error("event consumer stopped", zap.Error(err))
			}
		}()
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Mode:        cfg.Server.Mode,
		MetricsPath: cfg.Metrics.Path,
	}, httpapi.NewHandler(uc, logger, cfg.Server.RequestTimeout), m, logger)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
