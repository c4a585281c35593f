package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/config"
	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/observability"
	"github.com/amazin/bookstore/internal/pkg/breaker"
	"github.com/amazin/bookstore/internal/pkg/retry"
)

//go:generate mockgen -source internal/kafka/producer.go -destination=internal/kafka/producer_mock_test.go -package=kafka

var (
	ErrPublish     = errors.New("publish failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter builds the topic writer the publisher wraps.
func NewWriter(cfg config.Kafka) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Publisher pushes order events with retry behind a circuit breaker. A
// checkout is already committed by the time an event is published, so
// callers treat publish errors as observability problems, not failures.
type Publisher struct {
	writer      Writer
	breaker     *breaker.Breaker
	retryPolicy config.Retry
	logger      *zap.Logger
	metrics     observability.Metrics
}

func NewPublisher(writer Writer, brk *breaker.Breaker, retryPolicy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Publisher {
	return &Publisher{
		writer:      writer,
		breaker:     brk,
		retryPolicy: retryPolicy,
		logger:      logger,
		metrics:     metrics,
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	if err := p.breaker.Allow(); err != nil {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	value, err := json.Marshal(NewOrderCreated(order))
	if err != nil {
		p.breaker.Success()
		return fmt.Errorf("encode event: %w", err)
	}

	t0 := time.Now()
	err = retry.Do(ctx, p.retryPolicy, func() error {
		return p.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(order.ID),
			Value: value,
			Time:  time.Now(),
		})
	})
	durMs := float64(time.Since(t0).Microseconds()) / 1000.0

	if err != nil {
		p.breaker.Failure()
		p.metrics.ObservePublish(durMs, false)
		p.logger.Error("order event publish failed after retries",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.breaker.Success()
	p.metrics.ObservePublish(durMs, true)
	p.logger.Debug("order event published",
		zap.String("order_id", order.ID),
		zap.Int("value_bytes", len(value)),
		zap.Float64("dur_ms", durMs),
	)
	return nil
}
