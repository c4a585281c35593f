package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/application/catalog"
	"github.com/amazin/bookstore/internal/application/checkout"
	"github.com/amazin/bookstore/internal/application/recommend"
	"github.com/amazin/bookstore/internal/cache"
	"github.com/amazin/bookstore/internal/config"
	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/httpapi"
	"github.com/amazin/bookstore/internal/kafka"
	"github.com/amazin/bookstore/internal/observability"
	"github.com/amazin/bookstore/internal/pkg/breaker"
	"github.com/amazin/bookstore/internal/storage/memory"
	"github.com/amazin/bookstore/internal/storage/postgres"
)

type storage interface {
	domain.BookRepository
	domain.OrderRepository
	domain.CheckoutStore
}

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, cfg.DSN())
		if err != nil {
			logger.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pool.Close()
		store = postgres.New(pool)
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data will not survive a restart")
		store = memory.New()
	}

	bookCache, err := cache.New(cfg.CacheCap)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	bookCache.Warm(ctx, store)

	metrics := observability.NewPrometheus(prometheus.DefaultRegisterer)

	var pub checkout.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		writer := kafka.NewWriter(cfg.Kafka)
		defer func() { _ = writer.Close() }()
		pub = kafka.NewPublisher(writer, breaker.New(cfg.Breaker), cfg.Retry, logger, metrics)
		logger.Info("order event publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	catalogSvc := catalog.NewService(bookCache, store, logger, metrics)
	checkoutSvc := checkout.NewService(store, pub, bookCache, logger, metrics)
	recommendSvc := recommend.NewService(store, store, recommend.NewSelector(nil), logger, metrics)

	server := httpapi.New(catalogSvc, checkoutSvc, recommendSvc, store, cfg.RecommendLimit, logger, metrics)

	logger.Info("server starting", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
