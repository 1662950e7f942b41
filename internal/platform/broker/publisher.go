package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"logiflowEvents/internal/modules/realtime/domain"
)

// fallbackTimeout bounds the HTTP fallback call to the gateway.
const fallbackTimeout = 2 * time.Second

// Publisher delivers domain events best-effort: broker first over a managed
// connection, then an HTTP POST to the gateway publish endpoint. A failure on
// both paths drops the event. The business transaction that produced the
// event has already committed and must never block on delivery.
type Publisher struct {
	url      string
	exchange string
	fallback string
	client   *http.Client

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(amqpURL, exchange, fallbackURL string) *Publisher {
	if strings.TrimSpace(exchange) == "" {
		exchange = ExchangeName
	}
	return &Publisher{
		url:      amqpURL,
		exchange: exchange,
		fallback: strings.TrimRight(strings.TrimSpace(fallbackURL), "/"),
		client:   &http.Client{Timeout: fallbackTimeout},
	}
}

// Publish serializes the event and attempts broker delivery with the given
// routing key. Errors never reach the caller: the broker path is retried once
// over a fresh connection, then the gateway fallback is tried, then the event
// is dropped with a log line.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event domain.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("event marshal failed", slog.String("routingKey", routingKey), slog.Any("error", err))
		return
	}

	if err := p.publishBroker(ctx, routingKey, body); err != nil {
		slog.Warn("broker publish failed, trying gateway fallback", slog.String("routingKey", routingKey), slog.Any("error", err))
		if err := p.publishFallback(ctx, body); err != nil {
			slog.Warn("gateway fallback failed, event dropped", slog.String("routingKey", routingKey), slog.Any("error", err))
		}
	}
}

func (p *Publisher) publishBroker(ctx context.Context, key string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err == nil {
		if err = p.publishLocked(ctx, ch, key, body); err == nil {
			return nil
		}
	}

	// The cached channel may have died since last use; one fresh dial.
	p.resetLocked()
	ch, err = p.channelLocked()
	if err != nil {
		return err
	}
	return p.publishLocked(ctx, ch, key, body)
}

func (p *Publisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := DeclareExchange(ch, p.exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) publishLocked(ctx context.Context, ch *amqp.Channel, key string, body []byte) error {
	return ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) publishFallback(ctx context.Context, body []byte) error {
	if p.fallback == "" {
		return errors.New("no fallback url configured")
	}

	ctx, cancel := context.WithTimeout(ctx, fallbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.fallback+"/api/ws/publish", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build fallback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fallback post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fallback status %d", res.StatusCode)
	}
	return nil
}

// Close releases the managed broker connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}
