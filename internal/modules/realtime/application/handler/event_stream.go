package handler

import (
	"context"
	"log/slog"
	"strings"

	"logiflowEvents/internal/modules/realtime/application/port"
	"logiflowEvents/internal/modules/realtime/application/usecase"
	"logiflowEvents/internal/modules/realtime/domain"
)

// EventStreamHandler forwards broker deliveries matching a binding pattern to
// the WebSocket subscribers of the delivery's routing key.
type EventStreamHandler struct {
	pattern     string
	broadcastUC *usecase.BroadcastUseCase
}

func NewEventStreamHandler(pattern string, broadcastUC *usecase.BroadcastUseCase) *EventStreamHandler {
	return &EventStreamHandler{
		pattern:     strings.TrimSpace(pattern),
		broadcastUC: broadcastUC,
	}
}

func (h *EventStreamHandler) Pattern() string { return h.pattern }

// Handle resolves the fan-out topic (routing key first, then the envelope's
// type tag, then the default topic) and broadcasts the event unchanged.
func (h *EventStreamHandler) Handle(ctx context.Context, routingKey string, event domain.Event) error {
	topic := strings.TrimSpace(routingKey)
	if topic == "" {
		topic = strings.TrimSpace(event.Type)
	}
	if topic == "" {
		topic = domain.DefaultTopic
	}
	delivered := h.broadcastUC.Execute(ctx, topic, event)
	slog.Debug("event stream fan-out", slog.String("topic", topic), slog.String("eventType", event.Type), slog.Int("delivered", delivered))
	return nil
}

var _ port.TopicHandler = (*EventStreamHandler)(nil)
