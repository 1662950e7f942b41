package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeliveryHandler processes one broker delivery. The consumer acknowledges
// the delivery after the handler returns, regardless of the handler's error,
// so a poison message never blocks the queue.
type DeliveryHandler func(ctx context.Context, routingKey string, body []byte) error

// Consumer is a durable subscriber. It declares its queue and bindings on
// every (re)connect and tolerates the broker starting after the service.
type Consumer struct {
	url      string
	exchange string
	queue    string
	bindings []string

	maxAttempts int // 0 retries until the context is cancelled
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func NewConsumer(url, exchange, queue string, bindings []string) *Consumer {
	return &Consumer{
		url:       url,
		exchange:  exchange,
		queue:     queue,
		bindings:  bindings,
		baseDelay: time.Second,
		maxDelay:  30 * time.Second,
	}
}

// WithRetry bounds the consecutive failed connection attempts and tunes the
// backoff window. maxAttempts of zero keeps retrying until cancellation.
func (c *Consumer) WithRetry(maxAttempts int, baseDelay, maxDelay time.Duration) *Consumer {
	c.maxAttempts = maxAttempts
	if baseDelay > 0 {
		c.baseDelay = baseDelay
	}
	if maxDelay > 0 {
		c.maxDelay = maxDelay
	}
	return c
}

// Start blocks consuming deliveries until ctx is cancelled or the retry
// ceiling is exhausted.
func (c *Consumer) Start(ctx context.Context, handler DeliveryHandler) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := amqp.Dial(c.url)
		if err != nil {
			attempt++
			if c.maxAttempts > 0 && attempt >= c.maxAttempts {
				return fmt.Errorf("broker unreachable after %d attempts: %w", attempt, err)
			}
			delay := backoffDelay(c.baseDelay, c.maxDelay, attempt)
			slog.Warn("broker dial failed, retrying",
				slog.String("queue", c.queue),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.Any("error", err),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		attempt = 0
		err = c.consume(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("broker session ended, reconnecting", slog.String("queue", c.queue), slog.Any("error", err))
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, handler DeliveryHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := DeclareBoundQueue(ch, c.exchange, c.queue, c.bindings); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}
	slog.Info("broker consumer started", slog.String("queue", c.queue), slog.Any("bindings", c.bindings))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := handler(ctx, delivery.RoutingKey, delivery.Body); err != nil {
				slog.Error("delivery handler failed", slog.String("queue", c.queue), slog.String("routingKey", delivery.RoutingKey), slog.Any("error", err))
			}
			if err := delivery.Ack(false); err != nil {
				slog.Warn("delivery ack failed", slog.String("queue", c.queue), slog.Any("error", err))
			}
		}
	}
}

// backoffDelay doubles the base delay per consecutive failure up to the cap.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
