package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"logiflowEvents/internal/config"
	"logiflowEvents/internal/modules/realtime/domain"
	"logiflowEvents/internal/platform/broker"
	"logiflowEvents/internal/shared/logging"
)

// producer publishes a single event to the topic exchange, mirroring what the
// business services emit after committing an order or location change. Handy
// for exercising the gateway and notifier without the full stack running.
func main() {
	key := flag.String("key", domain.RouteOrderCreated, "routing key for the event")
	eventType := flag.String("type", "", "event type tag (defaults to the routing key)")
	data := flag.String("data", "{}", "event payload as a JSON object")
	flag.Parse()

	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}))

	var payload map[string]any
	if err := json.Unmarshal([]byte(*data), &payload); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -data json: %v\n", err)
		os.Exit(2)
	}

	typ := strings.TrimSpace(*eventType)
	if typ == "" {
		typ = *key
	}
	event := domain.Event{Type: typ, Data: payload}

	publisher := broker.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.Publisher.GatewayURL)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	publisher.Publish(ctx, *key, event)
	slog.Info("event published", slog.String("routingKey", *key), slog.String("type", event.Type))
}
