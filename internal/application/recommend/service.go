package recommend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/observability"
)

type BookLister interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	books    BookLister
	orders   OrderLister
	selector *Selector
	logger   *zap.Logger
	metrics  observability.Metrics
}

func NewService(books BookLister, orders OrderLister, selector *Selector, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		books:    books,
		orders:   orders,
		selector: selector,
		logger:   logger,
		metrics:  metrics,
	}
}

// Recommend returns up to count suggested books. It reads one snapshot of
// catalog and history and never mutates either; an order committed while
// the computation runs is simply not seen. An empty catalog yields an
// empty list, not an error.
func (s *Service) Recommend(ctx context.Context, count int) ([]domain.Book, error) {
	t0 := time.Now()

	catalog, err := s.books.ListBooks(ctx)
	if err != nil {
		s.logger.Error("catalog read failed", zap.Error(err))
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		s.logger.Error("order history read failed", zap.Error(err))
		return nil, err
	}

	books := s.selector.Select(catalog, orders, count)

	durMs := float64(time.Since(t0).Microseconds()) / 1000.0
	s.metrics.ObserveRecommend(durMs, len(books))
	s.logger.Debug("recommendations computed",
		zap.Int("catalog", len(catalog)),
		zap.Int("orders", len(orders)),
		zap.Int("returned", len(books)),
		zap.Float64("dur_ms", durMs),
	)
	return books, nil
}
