package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/observability"
)

type Store interface {
	Checkout(ctx context.Context, isbns []string, fn domain.CheckoutFunc) (*domain.Order, []domain.Book, error)
}

// Publisher pushes the order-created event after a successful commit.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

// Cache receives the post-decrement books so reads don't serve stale stock.
type Cache interface {
	Set(book *domain.Book)
}

type Service struct {
	store   Store
	pub     Publisher
	cache   Cache
	logger  *zap.Logger
	metrics observability.Metrics

	now   func() time.Time
	newID func() string
}

func NewService(store Store, pub Publisher, cache Cache, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		store:   store,
		pub:     pub,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Checkout applies the submitted cart as one atomic unit: aggregate,
// validate against locked stock, decrement, persist the order. Any error
// leaves catalog and order storage untouched. The engine never retries a
// failed commit; resubmission is up to the caller.
func (s *Service) Checkout(ctx context.Context, userID string, lines []domain.CartLine) (*domain.Order, []domain.Book, error) {
	t0 := time.Now()

	cart, err := AggregateCart(lines)
	if err != nil {
		s.metrics.ObserveCheckout(sinceMs(t0), false)
		return nil, nil, err
	}

	order, books, err := s.store.Checkout(ctx, cart.ISBNs, func(books []domain.Book) (*domain.Order, []domain.Book, error) {
		// Runs with the rows locked, so validation and decrement cannot
		// race another checkout touching the same books.
		if err := ValidateStock(cart, books); err != nil {
			return nil, nil, err
		}

		order := s.buildOrder(userID, cart, books)
		updated := make([]domain.Book, len(books))
		for i, b := range books {
			b.Inventory -= cart.Quantity(b.ISBN)
			updated[i] = b
		}
		return order, updated, nil
	})
	if err != nil {
		s.metrics.ObserveCheckout(sinceMs(t0), false)
		s.logger.Warn("checkout rejected",
			zap.String("user_id", userID),
			zap.Int("lines", len(lines)),
			zap.Error(err),
		)
		return nil, nil, err
	}

	durMs := sinceMs(t0)
	s.metrics.ObserveCheckout(durMs, true)
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(order.Items)),
		zap.Float64("dur_ms", durMs),
	)

	if s.cache != nil {
		for i := range books {
			s.cache.Set(&books[i])
		}
	}

	if s.pub != nil {
		if err := s.pub.OrderCreated(ctx, order); err != nil {
			// The order is already committed; a lost event must not fail
			// the request.
			s.logger.Error("order event publish failed",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
	}

	return order, books, nil
}

// buildOrder snapshots every line at current catalog values so later
// catalog edits never change what the order recorded.
func (s *Service) buildOrder(userID string, cart *domain.AggregatedCart, books []domain.Book) *domain.Order {
	order := &domain.Order{
		ID:        s.newID(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	for _, b := range books {
		order.Items = append(order.Items, domain.OrderItem{
			ISBN:     b.ISBN,
			Title:    b.Title,
			Price:    b.Price,
			Quantity: cart.Quantity(b.ISBN),
			ImageURL: b.ImageURL,
		})
	}
	return order
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
