package broker

import (
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the single durable topic exchange every LogiFlow service
// publishes to and consumes from.
const ExchangeName = "logiflow.events"

// DeclareExchange declares the durable topic exchange. Declaring identical
// topology is a no-op on the broker, so this is safe on every (re)connect.
func DeclareExchange(ch *amqp.Channel, name string) error {
	if strings.TrimSpace(name) == "" {
		name = ExchangeName
	}
	if err := ch.ExchangeDeclare(name, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	return nil
}

// DeclareBoundQueue declares a durable queue and binds it to the exchange
// under every given routing-key pattern.
func DeclareBoundQueue(ch *amqp.Channel, exchange, queue string, bindings []string) error {
	if strings.TrimSpace(exchange) == "" {
		exchange = ExchangeName
	}
	if err := DeclareExchange(ch, exchange); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	for _, key := range bindings {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s on %s: %w", queue, exchange, key, err)
		}
	}
	return nil
}
