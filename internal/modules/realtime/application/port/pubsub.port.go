package port

import (
	"context"

	"logiflowEvents/internal/modules/realtime/domain"
)

// Broadcaster is the contract for fanning one event out to every WebSocket
// connection subscribed to a matching topic. It returns how many connections
// the event was handed to, excluding connections found dead during the sweep.
type Broadcaster interface {
	Fanout(ctx context.Context, topic string, event domain.Event) int
}

// TopicHandler is implemented by components consuming broker deliveries
// routed by a binding pattern.
type TopicHandler interface {
	Pattern() string
	Handle(ctx context.Context, routingKey string, event domain.Event) error
}
